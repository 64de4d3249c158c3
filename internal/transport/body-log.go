package transport

import (
	"encoding/json"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// censorBody blanks credential fields in a JSON request body before it hits
// the log. Non-JSON bodies pass through untouched.
func censorBody(body []byte) []byte {
	if len(body) == 0 {
		return body
	}
	payload := map[string]interface{}{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return body
	}
	if _, ok := payload["password"]; ok {
		payload["password"] = "$censored"
	}
	censored, err := json.Marshal(payload)
	if err != nil {
		return body
	}
	return censored
}

// RequestLogMiddleware dumps mutating request bodies to the debug log, with
// credentials censored.
func (s *HTTPServer) RequestLogMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	dump := middleware.BodyDump(func(c echo.Context, reqBody, resBody []byte) {
		if len(reqBody) == 0 {
			return
		}
		s.logger.Debugw("request body",
			"method", c.Request().Method,
			"path", c.Path(),
			"body", string(censorBody(reqBody)),
		)
	})
	return dump(next)
}

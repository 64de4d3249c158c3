package transport

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aiground/linkdigest/internal/config"
	"github.com/aiground/linkdigest/internal/db"
	"github.com/aiground/linkdigest/internal/service"
)

type (
	RegisterReq struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=12"`
	}

	LoginReq struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	// BookmarkCreateReq is a tagged variant at the boundary: exactly one of
	// URL and Content must be set; the handler dispatches to the matching
	// service operation instead of the core sniffing fields.
	BookmarkCreateReq struct {
		URL          string   `json:"url"`
		Content      string   `json:"content"`
		Title        string   `json:"title"`
		Tags         []string `json:"tags"`
		SummaryModel string   `json:"summary_model"`
	}

	BookmarkUpdateReq struct {
		Title      *string  `json:"title"`
		URL        *string  `json:"url"`
		SourceName *string  `json:"source_name"`
		Summary    *string  `json:"summary"`
		Tags       []string `json:"tags"`
	}

	ShareReq struct {
		Target string `json:"target" validate:"required,oneof=users slack notion"`
		Public *bool  `json:"public"`
	}

	ShareResp struct {
		Success bool   `json:"success"`
		Title   string `json:"title"`
	}

	BookmarkResp struct {
		ID         uuid.UUID `json:"id"`
		Title      string    `json:"title"`
		URL        string    `json:"url"`
		Summary    string    `json:"summary"`
		Content    string    `json:"content"`
		Category   string    `json:"category"`
		Tags       []string  `json:"tags"`
		SourceName string    `json:"source_name"`
		ReadCount  int       `json:"read_count"`
		IsPublic   bool      `json:"is_public"`
		UserID     uuid.UUID `json:"user_id"`
		CreatedAt  string    `json:"created_at"`
		UpdatedAt  string    `json:"updated_at"`
	}

	BookmarkListResp struct {
		Items      []BookmarkResp `json:"items"`
		Total      int64          `json:"total"`
		Page       int            `json:"page"`
		PerPage    int            `json:"per_page"`
		TotalPages int64          `json:"total_pages"`
	}

	CustomValidator struct {
		validator *validator.Validate
	}

	HTTPServer struct {
		db     *gorm.DB
		svc    *service.Service
		cfg    *config.Config
		logger *zap.SugaredLogger
	}
)

func NewHTTPServer(lc fx.Lifecycle, cfg *config.Config, gdb *gorm.DB, svc *service.Service, logger *zap.SugaredLogger) *HTTPServer {
	e := echo.New()

	instance := HTTPServer{
		db:     gdb,
		svc:    svc,
		cfg:    cfg,
		logger: logger,
	}

	e.POST("/auth/register", instance.Register)
	e.POST("/auth/login", instance.Login)

	bookmarkG := e.Group("/bookmark")
	bookmarkG.GET("", instance.BookmarkList)
	bookmarkG.POST("", instance.BookmarkCreate)
	bookmarkG.GET("/models", instance.SummaryModels)
	bookmarkG.GET("/:id", instance.BookmarkGet)
	bookmarkG.PUT("/:id", instance.BookmarkUpdate)
	bookmarkG.DELETE("/:id", instance.BookmarkDelete)
	bookmarkG.POST("/:id/read-count", instance.BookmarkReadCount)
	bookmarkG.POST("/:id/share", instance.BookmarkShare)

	publicG := e.Group("/public/bookmark")
	publicG.GET("", instance.PublicList)
	publicG.GET("/:id", instance.PublicGet)

	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(instance.RequestLogMiddleware)
	e.Use(instance.AuthMiddleware)

	e.Validator = &CustomValidator{validator: validator.New()}

	echo.NotFoundHandler = func(c echo.Context) error {
		return c.NoContent(http.StatusNotFound)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := cfg.Host + ":" + cfg.Port
				if err := e.Start(listen); err != nil && err != http.ErrServerClosed {
					e.Logger.Fatal("shutting down the server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			return e.Shutdown(ctx)
		},
	})

	return &instance
}

func (s *HTTPServer) Register(c echo.Context) error {
	req := RegisterReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := s.svc.Register(req.Email, req.Password)
	if err != nil {
		return err
	}
	resp := struct {
		Token string `json:"token"`
	}{
		Token: token,
	}
	return c.JSON(http.StatusOK, &resp)
}

func (s *HTTPServer) Login(c echo.Context) error {
	req := LoginReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := s.svc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrLoginUserNotFound) || errors.Is(err, service.ErrLoginPasswordDoesNotMatch) {
			return c.NoContent(http.StatusUnauthorized)
		}
		return err
	}
	resp := struct {
		Token string `json:"token"`
	}{
		Token: token,
	}
	return c.JSON(http.StatusOK, &resp)
}

func (s *HTTPServer) BookmarkList(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	page, perPage := pagination(c)
	terms := c.QueryParams()["tags"]

	bookmarks, total, err := s.svc.List(user, page, perPage, terms)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse(bookmarks, total, page, perPage))
}

func (s *HTTPServer) BookmarkCreate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := BookmarkCreateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	hasURL := strings.TrimSpace(req.URL) != ""
	hasContent := strings.TrimSpace(req.Content) != ""
	if hasURL == hasContent {
		return echo.NewHTTPError(http.StatusBadRequest, "exactly one of url and content is required")
	}

	var bookmark *db.Bookmark
	if hasURL {
		bookmark, err = s.svc.CreateFromURL(c.Request().Context(), user, service.CreateURLInput{
			URL:   req.URL,
			Title: req.Title,
			Tags:  req.Tags,
			Model: req.SummaryModel,
		})
	} else {
		bookmark, err = s.svc.CreateFromContent(c.Request().Context(), user, service.CreateContentInput{
			Content: req.Content,
			Title:   req.Title,
			Tags:    req.Tags,
			Model:   req.SummaryModel,
		})
	}
	if err != nil {
		return svcError(err)
	}

	return c.JSON(http.StatusOK, bookmarkResponse(bookmark))
}

func (s *HTTPServer) SummaryModels(c echo.Context) error {
	resp := struct {
		Models []string `json:"models"`
	}{
		Models: s.cfg.SummaryModelList(),
	}
	return c.JSON(http.StatusOK, &resp)
}

func (s *HTTPServer) BookmarkGet(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseID(c)
	if err != nil {
		return err
	}

	bookmark, err := s.svc.Get(user, id)
	if err != nil {
		return svcError(err)
	}
	return c.JSON(http.StatusOK, bookmarkResponse(bookmark))
}

func (s *HTTPServer) BookmarkUpdate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseID(c)
	if err != nil {
		return err
	}

	req := BookmarkUpdateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	bookmark, err := s.svc.Update(user, id, service.UpdateInput{
		Title:      req.Title,
		URL:        req.URL,
		SourceName: req.SourceName,
		Summary:    req.Summary,
		Tags:       req.Tags,
	})
	if err != nil {
		return svcError(err)
	}
	return c.JSON(http.StatusOK, bookmarkResponse(bookmark))
}

func (s *HTTPServer) BookmarkDelete(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseID(c)
	if err != nil {
		return err
	}

	if err := s.svc.Delete(user, id); err != nil {
		return svcError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) BookmarkReadCount(c echo.Context) error {
	if _, err := GetUserFromContext(c); err != nil {
		return err
	}
	id, err := GetAndParseID(c)
	if err != nil {
		return err
	}

	bookmark, err := s.svc.IncreaseReadCount(id)
	if err != nil {
		return svcError(err)
	}
	return c.JSON(http.StatusOK, bookmarkResponse(bookmark))
}

func (s *HTTPServer) BookmarkShare(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseID(c)
	if err != nil {
		return err
	}

	req := ShareReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	title, err := s.svc.Share(c.Request().Context(), user, id, req.Target, req.Public)
	if err != nil {
		return svcError(err)
	}
	return c.JSON(http.StatusOK, ShareResp{Success: true, Title: title})
}

func (s *HTTPServer) PublicList(c echo.Context) error {
	page, perPage := pagination(c)

	bookmarks, total, err := s.svc.PublicList(page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse(bookmarks, total, page, perPage))
}

func (s *HTTPServer) PublicGet(c echo.Context) error {
	id, err := GetAndParseID(c)
	if err != nil {
		return err
	}

	bookmark, err := s.svc.PublicGet(id)
	if err != nil {
		return svcError(err)
	}
	return c.JSON(http.StatusOK, bookmarkResponse(bookmark))
}

func (s *HTTPServer) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Path()
		if strings.HasPrefix(path, "/auth/") || strings.HasPrefix(path, "/public/") || path == "/ping" {
			return next(c)
		}
		token := ""
		for key, values := range c.Request().Header {
			if strings.ToLower(key) == "x-token" {
				token = values[0]
				break
			}
		}
		if token == "" {
			return c.NoContent(http.StatusUnauthorized)
		}
		user := db.User{}
		res := s.db.Where("token = ?", token).First(&user)
		if res.Error != nil {
			s.logger.Error(errors.Wrap(res.Error, "find user in db"))
			return c.NoContent(http.StatusUnauthorized)
		}

		c.Set("user", &user)
		return next(c)
	}
}

////////

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return nil
}

func BindAndValidate(c echo.Context, v interface{}) error {
	var err error
	if err = c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err = c.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func GetUserFromContext(c echo.Context) (*db.User, error) {
	user, _ := c.Get("user").(*db.User)
	if user == nil {
		return nil, errors.New("no user found in context")
	}
	return user, nil
}

func GetAndParseID(c echo.Context) (uuid.UUID, error) {
	value := c.Param("id")
	if value == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid path param 'id'")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid path param 'id'")
	}
	return id, nil
}

func pagination(c echo.Context) (page, perPage int) {
	page, perPage = 1, 10
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v >= 1 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("per_page")); err == nil && v >= 1 && v <= 100 {
		perPage = v
	}
	return page, perPage
}

// svcError maps service sentinel errors onto HTTP statuses.
func svcError(err error) error {
	switch {
	case errors.Is(err, service.ErrBookmarkNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "bookmark not found")
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrDuplicateURL):
		return echo.NewHTTPError(http.StatusConflict, "url already bookmarked")
	case errors.Is(err, service.ErrEmptyContent):
		return echo.NewHTTPError(http.StatusBadRequest, "url or content is required")
	default:
		return err
	}
}

func bookmarkResponse(b *db.Bookmark) BookmarkResp {
	tags := []string(b.Tags)
	if tags == nil {
		tags = []string{}
	}
	return BookmarkResp{
		ID:         b.ID,
		Title:      b.Title,
		URL:        b.URL,
		Summary:    b.Summary,
		Content:    b.Content,
		Category:   b.Category,
		Tags:       tags,
		SourceName: b.SourceName,
		ReadCount:  b.ReadCount,
		IsPublic:   b.IsPublic,
		UserID:     b.UserID,
		CreatedAt:  b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:  b.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func listResponse(bookmarks []db.Bookmark, total int64, page, perPage int) BookmarkListResp {
	items := make([]BookmarkResp, len(bookmarks))
	for i := range bookmarks {
		items[i] = bookmarkResponse(&bookmarks[i])
	}
	return BookmarkListResp{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + int64(perPage) - 1) / int64(perPage),
	}
}

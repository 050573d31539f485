package server

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/danielgtaylor/huma/v2/adapters/humafiber"
	"github.com/danielgtaylor/huma/v2/adapters/humagin"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/fortressguard/fortress/internal/static"
)

// backend is a mounted router: the huma API on top of it, a net/http view
// of the whole site and, for fiber, the native app used to listen.
type backend struct {
	api     huma.API
	handler http.Handler
	app     *fiber.App
}

// mount builds the router named by router, attaching the huma API and the
// static site. Static files are only served for paths no route matched.
// net/http already recovers handler panics per connection; the other
// routers get their own recovery middleware.
func mount(router string, cfg huma.Config, assets fs.FS, staticCfg static.StaticConfig) (*backend, error) {
	switch router {
	case "stdlib":
		mux := http.NewServeMux()
		api := humago.New(mux, cfg)
		mux.Handle("/", static.Handler(assets, staticCfg))
		return &backend{api: api, handler: mux}, nil

	case "chi", "":
		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		api := humachi.New(r, cfg)
		r.NotFound(static.Handler(assets, staticCfg))
		return &backend{api: api, handler: r}, nil

	case "gin":
		gin.SetMode(gin.ReleaseMode)
		engine := gin.New()
		engine.Use(gin.Recovery())
		api := humagin.New(engine, cfg)
		engine.NoRoute(ginStatic(assets, staticCfg))
		return &backend{api: api, handler: engine}, nil

	case "echo":
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(echomiddleware.Recover())
		api := humaecho.New(e, cfg)
		e.RouteNotFound("/*", echoStatic(assets, staticCfg))
		return &backend{api: api, handler: e}, nil

	case "fiber":
		app := fiber.New(fiber.Config{DisableStartupMessage: true})
		app.Use(fiberrecover.New())
		api := humafiber.New(app, cfg)
		return &backend{api: api, app: app}, nil
	}

	return nil, fmt.Errorf("unsupported router: %s", router)
}

// finish runs once every operation is registered. Fiber matches handlers in
// registration order, so its static fallback has to come last.
func (b *backend) finish(assets fs.FS, staticCfg static.StaticConfig) {
	if b.app == nil {
		return
	}
	b.app.Use(fiberStatic(assets, staticCfg))
	b.handler = adaptor.FiberApp(b.app)
}

func ginStatic(assets fs.FS, config static.StaticConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := static.ServeStaticFile(assets, config, c.Request.URL.Path)
		if response.NotFound {
			c.Status(http.StatusNotFound)
			return
		}

		c.Header("Cache-Control", response.CacheControl)
		c.Data(response.StatusCode, response.ContentType, response.Body)
	}
}

func echoStatic(assets fs.FS, config static.StaticConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := static.ServeStaticFile(assets, config, c.Request().URL.Path)
		if response.NotFound {
			return echo.ErrNotFound
		}

		c.Response().Header().Set("Cache-Control", response.CacheControl)
		return c.Blob(response.StatusCode, response.ContentType, response.Body)
	}
}

func fiberStatic(assets fs.FS, config static.StaticConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		response := static.ServeStaticFile(assets, config, c.Path())
		if response.NotFound {
			return c.SendStatus(fiber.StatusNotFound)
		}

		c.Set("Content-Type", response.ContentType)
		c.Set("Cache-Control", response.CacheControl)
		c.Status(response.StatusCode)
		return c.Send(response.Body)
	}
}

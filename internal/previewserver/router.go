package previewserver

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/ngxkit/ngxpreview/internal/logx"
	"github.com/ngxkit/ngxpreview/pkg/routing"
)

// RequestIDHeader carries the per-request id, generated when absent.
const RequestIDHeader = "X-Preview-Request-Id"

const ctxKeyRoute = "preview.route"

// NewRouter builds the gin engine: request-id, access logging, panic
// recovery, then every request dispatched through the routing table.
func NewRouter(
	cfg *routing.ServerConfig,
	accessLogger *log.Logger,
	accessLoggerColor bool,
	accessFormatter *logx.AccessLogFormatter,
) *gin.Engine {
	r := gin.New()
	r.Use(requestIDMiddleware(RequestIDHeader))
	if accessLogger != nil {
		r.Use(requestLoggerWithColor(accessLogger, accessLoggerColor, RequestIDHeader, accessFormatter))
	}
	r.Use(gin.Recovery())
	r.NoRoute(dispatchHandler(cfg))
	return r
}

func dispatchHandler(cfg *routing.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		rule := cfg.Match(path)
		c.Set(ctxKeyRoute, rule.Label())

		out := cfg.Dispatch(rule, path)
		switch out.Kind {
		case routing.OutcomeProxy:
			c.String(http.StatusOK, "proxy_pass %s (mocked by ngxpreview)", out.ProxyTarget)
		case routing.OutcomeServe:
			data, err := os.ReadFile(out.FilePath)
			if err != nil {
				log.Printf("read %q: %v", out.FilePath, err)
				c.String(http.StatusInternalServerError, "500 Internal Server Error")
				return
			}
			c.Data(http.StatusOK, out.ContentType, data)
		case routing.OutcomeForbidden:
			c.String(http.StatusForbidden, "403 Forbidden")
		case routing.OutcomeError:
			log.Printf("dispatch %q: %v", path, out.Err)
			c.String(http.StatusInternalServerError, "500 Internal Server Error")
		default:
			c.String(http.StatusNotFound, "404 Not Found")
		}
	}
}

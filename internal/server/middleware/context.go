package middleware

import (
	"github.com/MicahParks/keyfunc/v3"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rabbitmq/amqp091-go"

	"github.com/finsight/graphview/pkg/api"
	"github.com/finsight/graphview/pkg/graph"
	"github.com/finsight/graphview/pkg/store/base"
)

type AppUser struct {
	Subject string
	Role    string
}

// App bundles the shared dependencies handlers pull from the request context.
// Store, Queue, S3 and Key are nil when the matching backend is not
// configured; handlers degrade accordingly.
type App struct {
	API   *api.Client
	State *graph.State
	Build graph.BuildParams
	Store base.SnapshotStore
	Queue *amqp091.Channel
	S3    *s3.Client
	Key   *keyfunc.Keyfunc
}

type AppContext struct {
	echo.Context
	App       *App
	User      *AppUser
	RequestID string
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID, err := gonanoid.New()
			if err != nil {
				requestID = "unknown"
			}
			cc := &AppContext{c, app, nil, requestID}
			return next(cc)
		}
	}
}

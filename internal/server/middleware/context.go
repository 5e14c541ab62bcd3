package middleware

import (
	"github.com/vidgraph/backend/internal/util"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/vidgraph/backend/pkg/ai"
	oai "github.com/vidgraph/backend/pkg/ai/ollama"
	gai "github.com/vidgraph/backend/pkg/ai/openai"
	"github.com/vidgraph/backend/pkg/knowledge"
	"github.com/vidgraph/backend/pkg/logger"
	"github.com/vidgraph/backend/pkg/rag"
)

type AppUser struct {
	UserID int64
	Role   string
}

type App struct {
	DBConn       *pgxpool.Pool
	Queue        *amqp091.Channel
	Key          *keyfunc.Keyfunc
	S3           *s3.Client
	Engine       *knowledge.Engine
	Rag          *rag.Client
	AiClient     ai.VideoAIClient
	MasterAPIKey string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(
	db *pgxpool.Pool,
	queue *amqp091.Channel,
	key *keyfunc.Keyfunc,
	s3 *s3.Client,
	engine *knowledge.Engine,
	ragClient *rag.Client,
	masterAPIKey string,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			adapter := util.GetEnv("AI_ADAPTER")
			var aiClient ai.VideoAIClient

			switch adapter {
			case "ollama":
				client, err := oai.NewVideoOllamaClient(oai.NewVideoOllamaClientParams{
					SummaryModel: util.GetEnv("AI_SUMMARY_MODEL"),
					ChatModel:    util.GetEnv("AI_CHAT_MODEL"),

					BaseURL: util.GetEnv("AI_URL"),
					APIKey:  util.GetEnv("AI_KEY"),

					MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
				})
				if err != nil {
					logger.Fatal("Failed to create Ollama client", "err", err)
				}
				aiClient = client
			default:
				aiClient = gai.NewVideoOpenAIClient(gai.NewVideoOpenAIClientParams{
					SummaryModel: util.GetEnv("AI_SUMMARY_MODEL"),
					ChatModel:    util.GetEnv("AI_CHAT_MODEL"),

					BaseURL: util.GetEnv("AI_URL"),
					APIKey:  util.GetEnv("AI_KEY"),
				})
			}

			app := &App{
				DBConn:       db,
				Queue:        queue,
				Key:          key,
				S3:           s3,
				Engine:       engine,
				Rag:          ragClient,
				AiClient:     aiClient,
				MasterAPIKey: masterAPIKey,
			}
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}

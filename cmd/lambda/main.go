package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mnemosyne/infrastructure/config"
	"mnemosyne/infrastructure/di"
	"mnemosyne/interfaces/http/rest"
)

var (
	chiLambda *chiadapter.ChiLambdaV2
	container *di.Container
	coldStart = true
)

func init() {
	start := time.Now()
	log.Println("lambda cold start initiated")

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	container, err = di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}

	handler := rest.NewRouter(rest.RouterDeps{
		Config:          container.Config,
		Logger:          container.Logger,
		Store:           container.Store,
		IngestService:   container.IngestService,
		TemporalService: container.TemporalService,
		CommandBus:      container.CommandBus,
		QueryBus:        container.QueryBus,
	})

	chiRouter, ok := handler.(*chi.Mux)
	if !ok {
		log.Fatal("router did not produce a *chi.Mux")
	}
	chiLambda = chiadapter.NewV2(chiRouter)

	log.Printf("lambda cold start completed in %v", time.Since(start))
}

// Handler proxies an API Gateway HTTP API v2 event through the chi router.
// JWT validation happens inside the router's own middleware chain, same as
// the standalone server binary; API Gateway is a plain transport in front
// of it here, not a second authorizer.
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp, err := chiLambda.ProxyWithContextV2(ctx, req)

	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	resp.Headers["X-Cold-Start"] = boolHeader(coldStart)
	coldStart = false
	if req.RequestContext.RequestID != "" {
		resp.Headers["X-Request-ID"] = req.RequestContext.RequestID
	}

	if resp.StatusCode >= 500 {
		container.Logger.Error("lambda request failed",
			zap.String("method", req.RequestContext.HTTP.Method),
			zap.String("path", req.RequestContext.HTTP.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", req.RequestContext.RequestID),
		)
	}

	return resp, err
}

func boolHeader(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func main() {
	lambda.Start(Handler)
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/mindspace/internal/api"
	"github.com/mindspace/internal/app"
)

var handler api.Handler

func init() {
	application, err := app.New(context.Background(), "goal-suggestion")
	if err != nil {
		fmt.Printf("Error initializing goal-suggestion: %v\n", err)
		os.Exit(1)
	}
	handler = application.API.Lookup("goal-suggestion")
}

func main() {
	lambda.Start(handler)
}

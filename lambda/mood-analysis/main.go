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
	application, err := app.New(context.Background(), "mood-analysis")
	if err != nil {
		fmt.Printf("Error initializing mood-analysis: %v\n", err)
		os.Exit(1)
	}
	handler = application.API.Lookup("mood-analysis")
}

func main() {
	lambda.Start(handler)
}

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

// One function serves every newsletter route; API Gateway forwards them with
// their original path.
func init() {
	application, err := app.New(context.Background(), "newsletter")
	if err != nil {
		fmt.Printf("Error initializing newsletter: %v\n", err)
		os.Exit(1)
	}
	handler = api.Router(application.API.Group(api.GroupNewsletter))
}

func main() {
	lambda.Start(handler)
}

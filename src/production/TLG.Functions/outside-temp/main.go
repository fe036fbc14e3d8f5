package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"

	container "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Container"
)

func main() {
	ctr, err := container.NewPollerContainer(context.Background())
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}

	ctr.GetLogger().Info("Starting outside-temp function")
	lambda.Start(ctr.Poller().Handle)
}

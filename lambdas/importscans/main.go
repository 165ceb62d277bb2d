package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"geoclock.com/geoclock/core"
	"geoclock.com/geoclock/infrastructure/communication"
	"geoclock.com/geoclock/infrastructure/devops"
	"geoclock.com/geoclock/infrastructure/filesystem"
	"geoclock.com/geoclock/lambdas/importscans/helper"
	"geoclock.com/geoclock/utils"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

// HandleRequest imports every uploaded CSV of admin scan records and
// recomputes the covered (user, dateKey) keys.
func HandleRequest(ctx context.Context, event events.S3Event) error {
	fmt.Printf("[EVENT] %d records\n", len(event.Records))
	hasError := false

	slack := communication.ConnectSlack()
	dsn, err := resolveDSN(ctx)
	if err != nil {
		slack.Error(fmt.Sprintf("importscans: resolve dsn: %v", err))
		return err
	}
	db, err := core.ConnectDB(dsn)
	if err != nil {
		slack.Error(fmt.Sprintf("importscans: db connect failed: %v", err))
		return err
	}

	for _, record := range event.Records {
		bucket := record.S3.Bucket.Name
		key := record.S3.Object.Key
		fmt.Printf("[INFO] importing s3://%s/%s\n", bucket, key)

		var stream bytes.Buffer
		if err := filesystem.ReadFile(bucket, key, ctx, &stream); err != nil {
			fmt.Printf("[ERROR] failed to read %s: %v\n", key, err)
			hasError = true
			continue
		}

		if err := helper.Import(db, &stream); err != nil {
			fmt.Printf("[ERROR] failed to import %s: %v\n", key, err)
			slack.Error(fmt.Sprintf("importscans: %s: %v", key, err))
			hasError = true
			continue
		}

		slack.Info(fmt.Sprintf("importscans: imported %s", key))
	}

	if hasError {
		return fmt.Errorf("one or more imports failed")
	}
	return nil
}

// resolveDSN prefers the DSN env var; deployments that keep credentials in
// Parameter Store leave it unset and name the entry via DB_NAME instead.
func resolveDSN(ctx context.Context) (string, error) {
	if dsn := os.Getenv("DSN"); dsn != "" {
		return dsn, nil
	}

	entries, err := devops.LoadDBConfig(ctx)
	if err != nil {
		return "", err
	}
	name := os.Getenv("DB_NAME")
	entry := utils.Find(entries, func(e devops.DBEntry) bool { return e.Name == name })
	if entry == nil {
		return "", fmt.Errorf("no database entry named %q", name)
	}
	return entry.DSN(), nil
}

func main() {
	lambda.Start(HandleRequest)
}

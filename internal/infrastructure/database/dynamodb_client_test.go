package database

import (
	"context"
	"testing"

	appconfig "github.com/NMHx2005/lms-backend-sub006/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAWSConfig(t *testing.T) {
	t.Run("static credentials and default region", func(t *testing.T) {
		cfg, err := NewAWSConfig(context.Background(), appconfig.AWSConfig{
			AccessKeyID:     "local",
			SecretAccessKey: "local",
		})
		require.NoError(t, err)
		assert.Equal(t, "us-east-1", cfg.Region)

		creds, err := cfg.Credentials.Retrieve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "local", creds.AccessKeyID)
	})

	t.Run("local endpoint client", func(t *testing.T) {
		client, err := ConnectDynamoDB(context.Background(), appconfig.AWSConfig{
			Region:           "ap-southeast-1",
			AccessKeyID:      "local",
			SecretAccessKey:  "local",
			DynamoDBEndpoint: "http://localhost:8000",
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, "ap-southeast-1", client.Options().Region)
		require.NotNil(t, client.Options().BaseEndpoint)
		assert.Equal(t, "http://localhost:8000", *client.Options().BaseEndpoint)
	})
}

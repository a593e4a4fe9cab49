package securestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"go.uber.org/zap"
)

// AWSStore keeps secrets in AWS Secrets Manager, which encrypts at rest on the
// platform side. Secret naming convention: {env}/{service}/{account}.
type AWSStore struct {
	client  *secretsmanager.Client
	env     string
	service string
	logger  *zap.Logger
}

// NewAWSStore creates a Secrets Manager backed store for the given region.
func NewAWSStore(ctx context.Context, region, env, service string, logger *zap.Logger) (*AWSStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AWSStore{
		client:  secretsmanager.NewFromConfig(cfg),
		env:     env,
		service: service,
		logger:  logger,
	}, nil
}

func (s *AWSStore) secretName(account string) string {
	return strings.ToLower(fmt.Sprintf("%s/%s/%s", s.env, s.service, account))
}

func (s *AWSStore) Put(ctx context.Context, account string, secret []byte) error {
	name := s.secretName(account)
	value := aws.String(string(secret))

	_, err := s.client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(name),
		SecretString: value,
	})
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		_, err = s.client.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
			Name:         aws.String(name),
			SecretString: value,
		})
		if err == nil {
			return nil
		}
	}
	return s.wrap("put", err)
}

func (s *AWSStore) Get(ctx context.Context, account string) ([]byte, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretName(account)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, s.wrap("get", err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("%w: secret string is nil", ErrCorrupt)
	}
	return []byte(*out.SecretString), nil
}

func (s *AWSStore) Delete(ctx context.Context, account string) error {
	_, err := s.client.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:                   aws.String(s.secretName(account)),
		ForceDeleteWithoutRecovery: aws.Bool(true),
	})
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return s.wrap("delete", err)
	}
	return nil
}

func (s *AWSStore) Exists(ctx context.Context, account string) (bool, error) {
	_, err := s.client.DescribeSecret(ctx, &secretsmanager.DescribeSecretInput{
		SecretId: aws.String(s.secretName(account)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, s.wrap("exists", err)
	}
	return true, nil
}

func (s *AWSStore) Ping(ctx context.Context) error {
	_, err := s.client.ListSecrets(ctx, &secretsmanager.ListSecretsInput{
		MaxResults: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *AWSStore) wrap(op string, err error) error {
	s.logger.Warn("securestore.aws_op_failed",
		zap.String("op", op),
		zap.Error(err))
	return &BackendError{Op: op, Err: err}
}

func isNotFound(err error) bool {
	var rnf *types.ResourceNotFoundException
	return errors.As(err, &rnf)
}

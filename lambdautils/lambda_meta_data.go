package lambdautils

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"
)

// LambdaMetaData stored details about the current lambda context.
type LambdaMetaData struct {
	FunctionName    string
	FunctionVersion string
	LogGroupName    string
	LogStreamName   string
	MemoryLimitInMB int
	Context         *lambdacontext.LambdaContext
}

// GetLambdaMetaData returns MetaData extracted from the current lambda context.
func GetLambdaMetaData(ctx context.Context) LambdaMetaData {
	lm := LambdaMetaData{
		FunctionName:    lambdacontext.FunctionName,
		FunctionVersion: lambdacontext.FunctionVersion,
		LogGroupName:    lambdacontext.LogGroupName,
		LogStreamName:   lambdacontext.LogStreamName,
		MemoryLimitInMB: lambdacontext.MemoryLimitInMB,
	}

	lm.Context, _ = lambdacontext.FromContext(ctx)
	return lm
}

// RequestID returns the aws request id of the invocation, empty outside of
// lambda.
func (lm LambdaMetaData) RequestID() string {
	if lm.Context == nil {
		return ""
	}
	return lm.Context.AwsRequestID
}

// LogFields returns zap fields identifying the invocation. Nothing is returned
// when ctx does not come from the lambda runtime.
func LogFields(ctx context.Context) []zap.Field {
	lm := GetLambdaMetaData(ctx)
	if lm.Context == nil {
		return nil
	}

	return []zap.Field{
		zap.String("function", lm.FunctionName),
		zap.String("function_version", lm.FunctionVersion),
		zap.String("aws_request_id", lm.RequestID()),
	}
}

// cmd/vapi-test-call/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"jessica-sub/internal/calls"
	"jessica-sub/internal/common/config"
	"jessica-sub/internal/common/logger"
)

func main() {
	os.Exit(run(context.Background(), os.Stdout, os.Stderr))
}

// run places one outbound call and returns the process exit code. The ENV
// CHECK block goes to out, log lines to logOut.
func run(ctx context.Context, out, logOut io.Writer) int {
	config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(logOut, "config load failed: %v\n", err)
		return 1
	}

	zapLog := logger.NewWithWriter(cfg.Logging.Level, "console", logOut)
	defer zapLog.Sync()

	printEnvCheck(out, cfg)

	callCfg := calls.ConfigFrom(cfg)
	if err := callCfg.Validate(); err != nil {
		zapLog.Error("invalid call configuration", zap.Error(err))
		return 1
	}

	svc := calls.NewService(calls.ServiceDependencies{
		Logger: logger.NewZapAdapter(zapLog),
	}, callCfg)

	ctx, cancel := context.WithTimeout(ctx, callCfg.Timeout+5*time.Second)
	defer cancel()

	zapLog.Info("Sending call request to Vapi",
		zap.String("mode", callCfg.Mode),
		zap.String("requestedNumber", cfg.Calls.CustomerNumber),
	)

	result, err := svc.PlaceTestCall(ctx, cfg.Calls.CustomerNumber, cfg.Calls.FirstMessage)
	if err != nil {
		zapLog.Error("call failed", zap.Error(err))
		return 1
	}

	zapLog.Info("Call created",
		zap.String("callId", result.CallID),
		zap.String("status", result.Status),
		zap.String("dialedNumber", result.DialedNumber),
	)
	return 0
}

func printEnvCheck(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "ENV CHECK:")
	fmt.Fprintln(out, "VAPI_PRIVATE_KEY:", cfg.Vapi.PrivateKey != "")
	fmt.Fprintln(out, "VAPI_ASSISTANT_ID:", cfg.Vapi.AssistantID)
	fmt.Fprintln(out, "VAPI_PHONE_NUMBER_ID:", cfg.Vapi.PhoneNumberID)
	fmt.Fprintln(out, "CALL_MODE:", cfg.Calls.Mode)
}

package errors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGetCodeUnwrapsChains(t *testing.T) {
	base := New(CodeInsufficientCash, "cash too low")
	wrapped := fmt.Errorf("persist league snapshot: %w", base)

	if got := GetCode(wrapped); got != CodeInsufficientCash {
		t.Fatalf("expected insufficient cash, got %s", got)
	}
	if got := GetCode(errors.New("plain")); got != CodeUnknown {
		t.Fatalf("expected unknown for plain error, got %s", got)
	}
	if got := GetCode(nil); got != CodeUnknown {
		t.Fatalf("expected unknown for nil, got %s", got)
	}
}

func TestIsMatchesByCode(t *testing.T) {
	first := New(CodeNotFound, "record not found")
	second := WithMetadata(CodeNotFound, "league is not registered", map[string]string{"league": "x"})

	if !errors.Is(second, first) {
		t.Fatal("expected errors with the same code to match")
	}
	if errors.Is(first, New(CodeZeroAmount, "zero")) {
		t.Fatal("expected different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeUnknown, "save failed", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected cause reachable through Unwrap")
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeLeagueNameEmpty, codes.InvalidArgument},
		{CodeZeroAmount, codes.InvalidArgument},
		{CodeNotCommissioner, codes.PermissionDenied},
		{CodeCertificateUnauthorized, codes.PermissionDenied},
		{CodeInsufficientCash, codes.FailedPrecondition},
		{CodeLeagueInactive, codes.FailedPrecondition},
		{CodeReentrantCall, codes.FailedPrecondition},
		{CodeLeagueNameTaken, codes.AlreadyExists},
		{CodeTeamAlreadyJoined, codes.FailedPrecondition},
		{CodeNotFound, codes.NotFound},
		{CodeNotImplemented, codes.Unimplemented},
		{CodeUnknown, codes.Internal},
	}

	for _, tc := range tests {
		if got := tc.code.GRPCCode(); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.code, tc.want, got)
		}
	}
}

func TestHandleErrorAttachesDetails(t *testing.T) {
	err := WithMetadata(CodeSeasonDuesTooLow,
		"season dues must cover the season creation fee",
		map[string]string{"fee": "200"})

	st, ok := status.FromError(HandleError(err, "en-US"))
	if !ok {
		t.Fatal("expected a grpc status")
	}
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("expected failed precondition, got %v", st.Code())
	}

	var info *errdetails.ErrorInfo
	var localized *errdetails.LocalizedMessage
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			info = d
		case *errdetails.LocalizedMessage:
			localized = d
		}
	}
	if info == nil || info.Reason != string(CodeSeasonDuesTooLow) || info.Domain != Domain {
		t.Fatalf("unexpected error info %+v", info)
	}
	if info.Metadata["fee"] != "200" {
		t.Fatalf("expected fee metadata, got %v", info.Metadata)
	}
	if localized == nil || localized.Message != "season dues must cover the season creation fee of 200" {
		t.Fatalf("unexpected localized message %+v", localized)
	}
}

func TestHandleErrorLocalizesToRequestedLocale(t *testing.T) {
	err := New(CodeZeroAmount, "amount must be greater than zero")

	st, ok := status.FromError(HandleError(err, "pt-BR"))
	if !ok {
		t.Fatal("expected a grpc status")
	}
	var localized *errdetails.LocalizedMessage
	for _, detail := range st.Details() {
		if d, match := detail.(*errdetails.LocalizedMessage); match {
			localized = d
		}
	}
	if localized == nil || localized.Locale != "pt-BR" {
		t.Fatalf("expected pt-BR localization, got %+v", localized)
	}
	if localized.Message != "o valor deve ser maior que zero" {
		t.Fatalf("unexpected localized message %q", localized.Message)
	}
}

func TestHandleErrorUnknown(t *testing.T) {
	st, ok := status.FromError(HandleError(errors.New("boom"), ""))
	if !ok {
		t.Fatal("expected a grpc status")
	}
	if st.Code() != codes.Internal {
		t.Fatalf("expected internal, got %v", st.Code())
	}
}

func TestHandleErrorNil(t *testing.T) {
	if err := HandleError(nil, "en-US"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

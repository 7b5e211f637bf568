// Package mocks provides mock implementations for testing the auth core.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the ports interfaces. The mocks are generated using go:generate
// directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	store := mocks.NewMockCredentialStore(ctrl)
//	store.EXPECT().RecordFailure(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, false, errors.New("down"))
package mocks

// Generate mock for the CredentialStore interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_store_mock.go github.com/parkops/reserve-ui-api/internal/ports CredentialStore

// Generate mock for the SessionRegistry interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_registry_mock.go github.com/parkops/reserve-ui-api/internal/ports SessionRegistry

// Package gcp initializes Firebase and Cloud Storage clients.
package gcp

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// CredentialsPathEnv names the service-account JSON used outside Google Cloud.
const CredentialsPathEnv = "FIREBASE_CONFIG"

// CredentialsPathFromEnv returns the credentials file path, or nil to use ambient credentials.
func CredentialsPathFromEnv() *string {
	if path, found := os.LookupEnv(CredentialsPathEnv); found && path != "" {
		return &path
	}
	return nil
}

func clientOptions(credentialsPath *string) []option.ClientOption {
	if credentialsPath == nil {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(*credentialsPath)}
}

// GetApp creates a Firebase App instance.
func GetApp(ctx context.Context, credentialsPath *string) (*firebase.App, error) {
	return firebase.NewApp(ctx, nil, clientOptions(credentialsPath)...)
}

// InitFirebaseAuth initializes the Firebase App and returns an Auth client.
func InitFirebaseAuth(ctx context.Context, credentialsPath *string) (*firebase.App, *firebaseauth.Client, error) {
	app, err := GetApp(ctx, credentialsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing firebase app [%w]", err)
	}

	fbAuth, err := app.Auth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing firebase auth [%w]", err)
	}

	return app, fbAuth, nil
}

// NewStorageClient creates a Cloud Storage client with the same credentials.
func NewStorageClient(ctx context.Context, credentialsPath *string) (*storage.Client, error) {
	client, err := storage.NewClient(ctx, clientOptions(credentialsPath)...)
	if err != nil {
		return nil, fmt.Errorf("error initializing storage client [%w]", err)
	}
	return client, nil
}

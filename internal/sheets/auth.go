package sheets

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OAuth scopes the job needs: sheet contents plus Drive (tab duplication).
var scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
}

// storedToken matches the authorized-user token file the interactive OAuth
// flow writes (and that deployments ship base64-encoded in the environment).
type storedToken struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	TokenURI     string    `json:"token_uri"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	Expiry       time.Time `json:"expiry"`
}

// TokenSource locates token material in order of preference: the base64 env
// blob, then the on-disk token file.
func TokenSource(tokenB64, tokenPath string) ([]byte, error) {
	if tokenB64 != "" {
		raw, err := base64.StdEncoding.DecodeString(tokenB64)
		if err != nil {
			return nil, fmt.Errorf("decode token env material: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("read token file %s: %w", tokenPath, err)
	}
	return raw, nil
}

// AuthClient builds an authorized, auto-refreshing HTTP client from stored
// OAuth material. clientSecretJSON (the installed-app client secret file) is
// optional: the token file carries its own client id/secret.
func AuthClient(ctx context.Context, tokenJSON, clientSecretJSON []byte) (*http.Client, error) {
	var tok storedToken
	if err := json.Unmarshal(tokenJSON, &tok); err != nil {
		return nil, fmt.Errorf("parse stored token: %w", err)
	}
	if tok.RefreshToken == "" && tok.Token == "" {
		return nil, fmt.Errorf("stored token carries neither access nor refresh token")
	}

	conf, err := oauthConfig(clientSecretJSON, tok)
	if err != nil {
		return nil, err
	}

	return conf.Client(ctx, &oauth2.Token{
		AccessToken:  tok.Token,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}), nil
}

func oauthConfig(clientSecretJSON []byte, tok storedToken) (*oauth2.Config, error) {
	if len(clientSecretJSON) > 0 {
		conf, err := google.ConfigFromJSON(clientSecretJSON, scopes...)
		if err != nil {
			return nil, fmt.Errorf("parse client secret file: %w", err)
		}
		return conf, nil
	}

	if tok.ClientID == "" || tok.ClientSecret == "" {
		return nil, fmt.Errorf("no client secret file and the stored token has no client credentials")
	}
	endpoint := google.Endpoint
	if tok.TokenURI != "" {
		endpoint.TokenURL = tok.TokenURI
	}
	return &oauth2.Config{
		ClientID:     tok.ClientID,
		ClientSecret: tok.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}, nil
}

// DecodeOptional decodes a base64 env blob, returning nil for an empty value.
func DecodeOptional(b64 string) ([]byte, error) {
	if b64 == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode credentials env material: %w", err)
	}
	return raw, nil
}

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// TokenProvider supplies the short-lived password of a cloud IAM login.
type TokenProvider interface {
	// GetToken returns a fresh token and the moment it stops being accepted.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String describes the provider for log lines. It never contains secrets.
	String() string
}

// AzurePostgreSQLScope is the Entra ID scope of Azure Database for PostgreSQL.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"

// rdsTokenLifetime is how long RDS accepts a generated auth token.
const rdsTokenLifetime = 15 * time.Minute

// RDSTokenProvider signs RDS IAM auth tokens with the default AWS
// credential chain.
type RDSTokenProvider struct {
	endpoint string // host:port
	region   string
	username string
}

// NewRDSTokenProvider validates the RDS endpoint, region and IAM user.
func NewRDSTokenProvider(endpoint, region, username string) (*RDSTokenProvider, error) {
	switch {
	case endpoint == "":
		return nil, fmt.Errorf("AWS IAM auth requires endpoint (host:port): %w", airroutes.ErrInvalidConfig)
	case region == "":
		return nil, fmt.Errorf("AWS IAM auth requires region (use --aws-region or $AWS_REGION): %w", airroutes.ErrInvalidConfig)
	case username == "":
		return nil, fmt.Errorf("AWS IAM auth requires database username (-U): %w", airroutes.ErrInvalidConfig)
	}
	return &RDSTokenProvider{endpoint: endpoint, region: region, username: username}, nil
}

// GetToken signs a new token. Signing is local; no request reaches AWS.
func (p *RDSTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(p.region))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.username, cfg.Credentials)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build RDS auth token: %w", err)
	}
	return token, time.Now().Add(rdsTokenLifetime), nil
}

func (p *RDSTokenProvider) String() string {
	return fmt.Sprintf("RDS IAM(endpoint=%s, region=%s, user=%s)", p.endpoint, p.region, p.username)
}

// EntraTokenProvider requests Entra ID access tokens for Azure Database
// for PostgreSQL.
type EntraTokenProvider struct {
	credential azcore.TokenCredential
	desc       string
}

// NewEntraTokenProvider uses a service principal when tenant, client and
// secret are all set, and the DefaultAzureCredential chain (environment,
// workload identity, managed identity, Azure CLI) otherwise.
func NewEntraTokenProvider(tenantID, clientID, clientSecret string) (*EntraTokenProvider, error) {
	if tenantID != "" && clientID != "" && clientSecret != "" {
		cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure service principal credential: %w", err)
		}
		return &EntraTokenProvider{
			credential: cred,
			desc:       fmt.Sprintf("Entra ID service principal(tenant=%s, client=%s)", tenantID, clientID),
		}, nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure default credential: %w", err)
	}
	return &EntraTokenProvider{credential: cred, desc: "Entra ID default credential"}, nil
}

// GetToken requests a token for AzurePostgreSQLScope.
func (p *EntraTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	token, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{AzurePostgreSQLScope},
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("azure token acquisition failed: %w", err)
	}
	return token.Token, token.ExpiresOn, nil
}

// ServicePrincipal reports whether explicit client credentials are in use.
func (p *EntraTokenProvider) ServicePrincipal() bool {
	_, ok := p.credential.(*azidentity.ClientSecretCredential)
	return ok
}

func (p *EntraTokenProvider) String() string {
	return p.desc
}

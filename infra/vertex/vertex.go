package vertex

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/finance-assistant/infra/account"
)

// SetupVertex enables the Vertex AI API and allows the API service account to
// call the chat model.
func SetupVertex(ctx *pulumi.Context, prov *gcp.Provider, apiSA *serviceaccount.Account) error {
	svc, err := enableVertex(ctx, prov)
	if err != nil {
		return err
	}

	_, err = account.GrantProjectRole(ctx, prov, "vertexUser", "roles/aiplatform.user", apiSA, svc)
	return err
}

func enableVertex(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "vertex", &projects.ServiceArgs{
		Service: pulumi.String("aiplatform.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

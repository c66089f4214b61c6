package account

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// CreateAPIServiceAccount creates the identity the API runs as and grants it
// Firestore read/write on the project.
func CreateAPIServiceAccount(ctx *pulumi.Context, prov *gcp.Provider) (*serviceaccount.Account, error) {
	apiSA, err := serviceaccount.NewAccount(ctx, "apiServiceAccount", &serviceaccount.AccountArgs{
		AccountId:   pulumi.String("assistant-api"),
		DisplayName: pulumi.String("Finance Assistant API"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	_, err = GrantProjectRole(ctx, prov, "firestoreAccess", "roles/datastore.user", apiSA)
	if err != nil {
		return nil, err
	}

	return apiSA, nil
}

// GrantProjectRole binds role to the service account at project level.
func GrantProjectRole(ctx *pulumi.Context,
	prov *gcp.Provider,
	resourceName,
	role string,
	apiSA *serviceaccount.Account,
	res ...pulumi.Resource) (*projects.IAMMember, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")

	return projects.NewIAMMember(ctx, resourceName, &projects.IAMMemberArgs{
		Project: pulumi.String(projectID),
		Role:    pulumi.String(role),
		Member:  Member(apiSA),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func Member(apiSA *serviceaccount.Account) pulumi.StringOutput {
	return apiSA.Email.ApplyT(func(email string) string {
		return fmt.Sprintf("serviceAccount:%s", email)
	}).(pulumi.StringOutput)
}

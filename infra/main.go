package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/finance-assistant/infra/account"
	"github.com/GregMSThompson/finance-assistant/infra/cloudrun"
	"github.com/GregMSThompson/finance-assistant/infra/docker"
	"github.com/GregMSThompson/finance-assistant/infra/firestore"
	"github.com/GregMSThompson/finance-assistant/infra/identity"
	"github.com/GregMSThompson/finance-assistant/infra/kms"
	"github.com/GregMSThompson/finance-assistant/infra/provider"
	"github.com/GregMSThompson/finance-assistant/infra/secret"
	"github.com/GregMSThompson/finance-assistant/infra/storage"
	"github.com/GregMSThompson/finance-assistant/infra/vertex"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity service to allow using firebase
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// enable firestore and create a database for the project
		err = firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		apiSA, err := account.CreateAPIServiceAccount(ctx, prov)
		if err != nil {
			return err
		}

		// note encryption key
		_, err = kms.SetupKMS(ctx, prov)
		if err != nil {
			return err
		}
		keyName, err := kms.CreateKey(ctx, prov, "finance-assistant", "notes")
		if err != nil {
			return err
		}
		err = kms.GrantCryptoAccess(ctx, prov, keyName, apiSA)
		if err != nil {
			return err
		}

		err = vertex.SetupVertex(ctx, prov, apiSA)
		if err != nil {
			return err
		}

		bucket, err := storage.CreateExportBucket(ctx, prov, apiSA)
		if err != nil {
			return err
		}

		secrets, err := secret.SetupSecretManager(ctx, prov, apiSA)
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		svc, err := cloudrun.SetupCloudRun(ctx, prov, apiSA, &cloudrun.Settings{
			KMSKeyName:   keyName,
			ExportBucket: bucket.Name,
		}, ident, repo, secrets)
		if err != nil {
			return err
		}

		ctx.Export("apiUrl", svc.Statuses.Index(pulumi.Int(0)).Url())
		ctx.Export("exportBucket", bucket.Name)
		return nil
	})
}

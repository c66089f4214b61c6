package storage

import (
	"fmt"
	"strconv"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/storage"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/finance-assistant/infra/account"
)

const defaultRetentionDays = 90

// CreateExportBucket creates the bucket that holds archived CSV exports.
// Objects are deleted after export:retentionDays.
func CreateExportBucket(ctx *pulumi.Context, prov *gcp.Provider, apiSA *serviceaccount.Account) (*storage.Bucket, error) {
	gcpCfg := config.New(ctx, "gcp")
	exportCfg := config.New(ctx, "export")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	retention := defaultRetentionDays
	if v, err := strconv.Atoi(exportCfg.Get("retentionDays")); err == nil && v > 0 {
		retention = v
	}

	svc, err := projects.NewService(ctx, "storageService", &projects.ServiceArgs{
		Service: pulumi.String("storage.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	bucket, err := storage.NewBucket(ctx, "exportBucket", &storage.BucketArgs{
		Name:                     pulumi.String(fmt.Sprintf("%s-exports", projectID)),
		Location:                 pulumi.String(region),
		UniformBucketLevelAccess: pulumi.Bool(true),
		PublicAccessPrevention:   pulumi.String("enforced"),
		LifecycleRules: storage.BucketLifecycleRuleArray{
			&storage.BucketLifecycleRuleArgs{
				Action: &storage.BucketLifecycleRuleActionArgs{
					Type: pulumi.String("Delete"),
				},
				Condition: &storage.BucketLifecycleRuleConditionArgs{
					Age: pulumi.Int(retention),
				},
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn([]pulumi.Resource{svc}),
	)
	if err != nil {
		return nil, err
	}

	_, err = storage.NewBucketIAMMember(ctx, "exportBucketWriter", &storage.BucketIAMMemberArgs{
		Bucket: bucket.Name,
		Role:   pulumi.String("roles/storage.objectAdmin"),
		Member: account.Member(apiSA),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	return bucket, nil
}

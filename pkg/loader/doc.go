// Package loader provides asynchronous child-route loaders backed by remote
// route manifests.
//
// S3Manifests plugs into a route file through its registry:
//
//	client := s3.NewFromConfig(cfg)
//	reg := &routefile.Registry{Components: components}
//	manifests := loader.NewS3Manifests(client, "routes-bucket", reg, loader.WithPrefix("prod/"))
//	reg.ChildLoader = manifests
//	routes, err := routefile.Load("routes.yaml", reg)
//
// A route declaring childRoutesManifest: docs.yaml then loads its children
// from s3://routes-bucket/prod/docs.yaml the first time a navigation reaches it.
package loader

// Package export renders a fixed list of paths to static HTML files.
//
// Each path is resolved by a server.Server exactly as a GET request would
// be, so middleware, metrics and tracing all apply. The resulting documents
// are handed to a Store under a key derived from the path:
//
//	/            index.html
//	/about       about/index.html
//	/docs/intro/ docs/intro/index.html
//
// Routes that redirect are exported as a small document with a refresh
// meta tag pointing at the target.
//
// Two stores are provided. DiskStore writes below a directory; S3Store
// uploads to a bucket through the AWS SDK and works with S3-compatible
// services when an endpoint is configured:
//
//	client, err := export.NewS3Client(ctx, export.S3Options{Region: "eu-west-1"})
//	store := export.NewS3Store(client, "my-site", "v1/")
//	results, err := export.New(srv, store).Export(ctx, paths)
package export

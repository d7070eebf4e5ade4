// Package config provides configuration parsing for vroute projects.
//
// The configuration is stored in vroute.yaml (or vroute.yml, vroute.json)
// at the project root. This package handles loading, saving, and validating
// configuration.
//
// # Configuration File Structure
//
//	server:
//	  addr: ":3000"
//	  basename: /docs
//	  readTimeout: 30s
//	dev:
//	  enabled: true
//	  watch: [content, vroute.yaml]
//	log:
//	  level: debug
//	  format: json
//	metrics:
//	  enabled: true
//	tracing:
//	  enabled: true
//	  endpoint: localhost:4318
//	  insecure: true
//	rateLimit:
//	  rps: 20
//	  burst: 40
//	export:
//	  dir: dist
//	  s3:
//	    bucket: my-site
//	    region: eu-west-1
//	site:
//	  title: Docs
//	  routes:
//	    - path: /
//	      exact: true
//	      body: <h1>Welcome</h1>
//	    - path: /old/:slug
//	      redirect: /guides/:slug
//	    - status: 404
//	      body: <h1>Not found</h1>
//
// ${VAR} references are replaced by environment variables.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Addr:", cfg.Server.Addr)
package config

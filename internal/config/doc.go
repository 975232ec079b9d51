// Package config provides configuration parsing for sprout projects.
//
// The configuration is stored in sprout.json or sprout.yaml at the project
// root. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	{
//	  "name": "counter",
//	  "dev": {
//	    "port": 8080,
//	    "host": "localhost"
//	  },
//	  "render": {
//	    "keyed": true,
//	    "pretty": false
//	  },
//	  "server": {
//	    "readTimeout": "60s",
//	    "writeTimeout": "10s",
//	    "maxSessions": 1000
//	  },
//	  "export": {
//	    "dir": "dist",
//	    "s3": {"bucket": "my-site", "prefix": "v1/", "region": "eu-west-1"}
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "sprout"
//	  }
//	}
//
// The YAML form uses the same keys. SPROUT_PORT and SPROUT_HOST override
// the dev address.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.DevAddress())
package config

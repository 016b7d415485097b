// Package config provides configuration parsing for the waypoint tool.
//
// The configuration is stored in waypoint.json, found by walking up from the
// working directory. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	{
//	  "routes": "routes.yaml",
//	  "log": {"level": "info"},
//	  "metrics": {"enabled": true, "namespace": "waypoint"},
//	  "navigation": {"timeout": "5s", "maxRedirects": 10},
//	  "manifests": {
//	    "bucket": "my-routes",
//	    "prefix": "prod/",
//	    "region": "eu-west-1",
//	    "timeout": "10s"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Find(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Routes:", cfg.RoutesPath())
package config

// Package config loads syringe.json.
//
// A project configuration looks like:
//
//	{
//	  "logLevel": "debug",
//	  "parallel": true,
//	  "playground": {"host": "0.0.0.0", "port": 8080, "live": true},
//	  "metrics": {"enabled": true, "namespace": "syringe"},
//	  "tracing": {"enabled": true},
//	  "fixtures": {"dir": "fixtures", "s3": {"region": "eu-west-1"}},
//	  "render": {"pretty": true}
//	}
//
// Omitted fields take the defaults of New. Load validates the result.
package config

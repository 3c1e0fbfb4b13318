// Package playground serves fixture documents over HTTP.
//
// POST /inject takes a fixture in the request body, builds it, injects the
// wrapper's bindings into its children and answers with the rendered HTML,
// the pass statistics and the handler calls recorded while firing the
// events named by repeated "emit" query parameters:
//
//	curl -X POST --data-binary @button.yaml 'localhost:7070/inject?emit=click'
//
// GET /fixtures/{path} does the same for a stored fixture; paths starting
// with s3/ are read from S3. /live is a WebSocket endpoint accepting
// {"fixture": "...", "emit": [...]} messages; every result is broadcast
// to all live clients.
package playground

// Package webui serves the drag-and-drop page and the JSON upload API.
//
// Uploads are read into memory, analyzed, and discarded; nothing is written to
// disk. Endpoints:
//
//	GET  /             drop page
//	POST /analyze      multipart "photo" upload, HTML result panels
//	POST /api/analyze  multipart "photo" upload, JSON report
//	GET  /healthz      liveness probe
package webui

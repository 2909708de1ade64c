package client

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
)

// Offline placeholder bodies. These shapes are part of the client
// contract: callers parse them with the same code path as real
// responses, so they carry success status and well-formed JSON.
const (
	offlineListBody = `{"success":true,"data":[],"message":"Cached data - limited when offline","offline":true}`

	offlineErrorBody = `{"success":false,"error":"This feature requires an internet connection","offline":true}`

	offlineImageBody = `<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300" viewBox="0 0 400 300">` +
		`<rect width="400" height="300" fill="#e2e8f0"/>` +
		`<text x="200" y="150" font-family="sans-serif" font-size="18" fill="#64748b" text-anchor="middle" dominant-baseline="middle">Image Unavailable</text>` +
		`</svg>`

	offlinePageBody = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Offline - StarBook</title>
<style>
body { font-family: sans-serif; background: #0f172a; color: #e2e8f0; display: flex; align-items: center; justify-content: center; min-height: 100vh; margin: 0; }
.card { text-align: center; padding: 2rem; }
h1 { font-size: 1.5rem; }
p { color: #94a3b8; }
</style>
</head>
<body>
<div class="card">
<h1>You are offline</h1>
<p>This page is not available without an internet connection. Your pending bookings will be submitted automatically once you are back online.</p>
</div>
</body>
</html>
`
)

func synthesizeListResponse(req *http.Request) *http.Response {
	return synthesize(req, []byte(offlineListBody), "application/json")
}

func synthesizeErrorResponse(req *http.Request) *http.Response {
	return synthesize(req, []byte(offlineErrorBody), "application/json")
}

func synthesizeImageResponse(req *http.Request) *http.Response {
	return synthesize(req, []byte(offlineImageBody), "image/svg+xml")
}

func synthesizePageResponse(req *http.Request) *http.Response {
	return synthesize(req, []byte(offlinePageBody), "text/html; charset=utf-8")
}

// synthesize builds an HTTP 200 response so the caller's normal parsing
// path does not break while offline.
func synthesize(req *http.Request, body []byte, contentType string) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", contentType)
	header.Set("Content-Length", strconv.Itoa(len(body)))
	header.Set("X-Offline-Fallback", "true")

	return &http.Response{
		Status:        http.StatusText(http.StatusOK),
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

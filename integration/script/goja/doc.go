// Package goja runs backend API scripts written in JavaScript.
//
// Scripts are plain ECMAScript 5.1+ files whose top-level functions become
// API functions. Each call receives the decoded request object and returns
// a JSON-encodable value:
//
//	function hello(req) {
//		backendAddHeader("Cache-Control", "no-store");
//		if (!req.name) {
//			apiError("MissingName");
//		}
//		return {message: greeting + ", " + req.name};
//	}
//
// The runtime provides:
//
//   - backendAddHeader(key, value): set a response header for this call
//   - apiError(name, status?): end the call with {"error": name}, status 400 by default
//   - console.log/info/debug/warn/error: write to the server log
//
// Config globals are defined before the script's top-level code runs. Every
// call runs in a fresh runtime with a time limit (DefaultTimeout).
package goja

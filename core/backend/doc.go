// Package backend exposes script functions as JSON API actions.
//
// The backend is described by a config file (markdown-up.json, or YAML)
// in the served root:
//
//	{
//		"scripts": [
//			{
//				"script": "api.js",
//				"globals": {"greeting": "Hello"},
//				"apis": [
//					{"name": "hello"},
//					{"name": "download", "function": "downloadFile", "wsgi": true, "methods": ["GET"]}
//				]
//			}
//		]
//	}
//
// Load compiles each script once through an Executor and verifies that
// every API function exists. Handler turns an Action into a route handler:
// query parameters and the JSON body are passed to the function, and its
// return value is written as JSON. WSGI functions return
// [status, [[header, value], ...], body] and control the raw response.
//
// Headers set by a script are collected in a Headers value created for that
// call only.
package backend

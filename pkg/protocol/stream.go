package protocol

// Document (every stream frame, and the GET/POST /api/data body):
//   teams: JSON array, opaque entries, caller order preserved
//   updatedAt: RFC 3339 timestamp of the last accepted write
//
// SSE (/api/stream):
//   data: <Document>\n\n        first frame on connect, one per accepted write
//   : keep-alive\n\n            comment frame after 30s idle
//
// WebSocket (/api/ws):
//   text message: <Document>    same cadence as SSE; inbound frames ignored
//   ping                        every 30s idle
//
// Errors (POST /api/data):
//   400 { "error": "Invalid JSON body" }
//   400 { "error": "Invalid payload: \"teams\" must be an array" }
//   500 { "error": "Failed to save data" }

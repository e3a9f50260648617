// Package catalog provides the HTTP client and data model for the remote
// satellite catalog.
//
// # Overview
//
// The catalog is a read-only service exposing a single query:
//
//	GET {base}/satellites?objectTypes=PAYLOAD,DEBRIS&attributes=noradCatId,...
//
// The response carries the matching records plus per object type counts:
//
//	{"data": [...], "counts": {"total": "42", "PAYLOAD": "30", ...}}
//
// Counts arrive as strings; both string and numeric forms are accepted.
//
// # Architecture
//
//   - client.go: Client, request construction, response decoding
//   - types.go: Satellite, ObjectType, OrbitSet, Counts, Response
//   - errors.go: FetchError, the only error kind FetchSatellites returns
//
// # Data Model
//
// Satellite keeps every attribute as delivered and adds two derived fields
// computed once while decoding:
//
//   - Orbits: the orbit code "{LEO,GTO}" parsed into an OrbitSet
//   - LaunchTime: the launch date parsed into a time.Time (zero if unparseable)
//
// Records are never mutated after decoding. A new fetch replaces them all.
//
// # Error Handling
//
// FetchSatellites maps every failure onto *FetchError:
//
//   - transport failure: "Network error occurred"
//   - status >= 400: the payload's "message" when present, else
//     "Failed to fetch satellites"
//   - malformed body: "Malformed response from catalog service"
//
// Message is meant for the operator. Err keeps the cause for logs and is
// reachable through errors.Unwrap.
//
// # Request Handling
//
// All requests:
//   - carry the caller's context
//   - set Accept: application/json, a User-Agent and a fresh X-Request-ID
//   - are bounded by the client timeout (30 seconds by default)
//   - read at most 64 MiB of body
//
// There is no retry. The caller decides when to ask again.
//
// # Usage Example
//
//	client, err := catalog.NewClient("https://backend.digantara.dev/v1")
//	if err != nil {
//		return err
//	}
//	resp, err := client.FetchSatellites(ctx, []catalog.ObjectType{catalog.ObjectPayload})
//	if err != nil {
//		var fe *catalog.FetchError
//		if errors.As(err, &fe) {
//			fmt.Println(fe.Message)
//		}
//	}
package catalog

// Package http provides HTTP handlers and middleware for the seat rotation API.
//
// The router exposes the following endpoints:
//   - GET /groups, POST /groups, GET /groups/{id}, PUT /groups/{id},
//     DELETE /groups/{id}: group management endpoints exchanging the
//     `groupDTO` payload defined in group_handler.go. Creating or updating a
//     group takes the plain join code; only its argon2id hash is stored.
//   - POST /groups/{id}/join: self-service enrollment. Body:
//     {"join_code","display_name","member_id"}. A wrong code yields 403 with
//     error code JOIN_CODE_REJECTED.
//   - GET /groups/{id}/members, POST /groups/{id}/members,
//     DELETE /groups/{id}/members/{memberID}: roster management exchanging
//     the `memberDTO` payload.
//   - GET /groups/{id}/non-working-days, PUT /groups/{id}/non-working-days:
//     the group's full excluded-date set, replaced wholesale on PUT.
//   - GET /groups/{id}/events, PUT /groups/{id}/events/{date},
//     DELETE /groups/{id}/events/{date}: special event annotations. Events
//     are echoed in rotation reasoning but never change seat assignments.
//   - GET /groups/{id}/rotation/next: the computed plan for the next working
//     day, including non-fatal input warnings.
//   - POST /groups/{id}/rotation/commit: appends the freshly computed plan to
//     the history. An optional {"date"} body pins the commit to a previously
//     shown proposal; a commit race loses with 409.
//   - GET /groups/{id}/arrangements, GET /groups/{id}/arrangements/{date}:
//     the committed history.
//   - GET /groups/{id}/stats: per-participant seat occupancy counts.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http

// Package host defines the capability contracts collectors consume to read
// request-scoped state from the hosting web application: the current request,
// its session, the authenticated user, the active configuration record,
// declared asset requirements and rendered templates.
//
// Collectors never reach for global state. The application builds a Scope for
// each request (components/debugbar does this for net/http) and passes it
// explicitly to every Collect call. All Scope members are optional; helpers in
// this package turn missing collaborators into empty values instead of errors.
package host

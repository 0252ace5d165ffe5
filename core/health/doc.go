// Package health provides liveness and readiness probe handlers.
//
// Liveness always answers "ALIVE". Readiness runs dependency checks in order
// and answers "READY" or 503 Service Unavailable, logging the failing check.
package health

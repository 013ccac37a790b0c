// Package state stores the OAuth state values issued with authorization URLs.
//
// A state is saved when an authorization URL is built and consumed exactly once
// when the browser returns to the callback. Consuming an unknown, expired, or
// already used state reports false, which the callback treats as a forged or
// replayed redirect.
//
// Two backends are provided: an in-process MemoryStore with a background
// cleanup loop, and a RedisStore for deployments running several replicas.
package state

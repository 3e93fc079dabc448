// Package database provides the PostgreSQL connection pool shared by the
// registry, sink and loaders. One pool per process; callers receive it by
// injection, there are no package-level singletons.
package database

// Package main provides the entry point of benevole, the backend of a volunteer
// management platform. It serves a JSON API built with Fiber where every route is
// protected by role and permission requirements evaluated against the authorities
// carried by a signed bearer token. Accounts, roles and the permission catalog are
// persisted with gorm on mysql, postgres or sqlite.
package main

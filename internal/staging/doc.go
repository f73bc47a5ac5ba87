// Package staging is the HTTP client for the server's packaging pipeline:
// it turns a tool run into a service definition draft and stages that
// draft into an uploadable service definition package.
package staging

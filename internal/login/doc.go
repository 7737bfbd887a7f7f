// Package login establishes and removes ChainVue identities: the device
// authorization flow, API-key login and logout.
package login

// Package listquery coordinates list pages over the query cache: one
// controller per resource translating page, limit, search, sort and
// structured filters into a canonical query key, plus the mutation runner,
// filter draft staging and bulk selection that surround it.
//
// Controllers never talk to the network directly. They hand a fetch function
// to the cache service, which owns de-duplication, freshness and retention.
package listquery

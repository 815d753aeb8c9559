// Package collector polls a tenant's application endpoints and assembles a
// types.RawSnapshot.
//
// Stats, health, schedules, recent jobs and upcoming executions are JSON
// documents fetched with plain GETs. The job worker's metrics page is read as
// Prometheus text exposition: worker_up and job_queue_pending fill the health
// document's worker and pendingJobs fields when it did not report them.
//
// Each endpoint carries its own auth (apikey, bearer, basic, mtls or none)
// applied by an http.RoundTripper. All sources are fetched concurrently on
// every Collect call; a failing source only removes its own sub-document.
package collector

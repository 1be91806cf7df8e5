// catalog-export downloads every item of a Luigi's Box catalog into one CSV file.
//
// Usage:
//
//	# Export with TRACKER_ID and API_KEY from the environment or .env
//	catalog-export
//
//	# Use an export config file and dump metrics afterwards
//	catalog-export --config export.yaml --metrics-file export.prom
package main

func main() {
	Execute()
}

// Command catalogctl công cụ vận hành: seed dataset địa giới, audit resolver,
// nạp catalog vào Meilisearch.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

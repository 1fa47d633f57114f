// @title           PeerLink API
// @version         1.0
// @description     Social backend: peer reviews, rating aggregates, profiles and search.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /

package main

import "peerlink_backend/internal/app"

func main() {
	app.Run()
}

// Package routeconfig loads route declarations from YAML files.
//
// A file lists routes under a top-level "routes" key. Nested "routes"
// declare children:
//
//	routes:
//	  - name: locale
//	    pattern: "^/(lang:[a-z]{2})/"
//	    stop: false
//	    cut: true
//	    imply: true
//	    defaults:
//	      lang: en
//	  - name: shop
//	    pattern: "^shop/(id:[0-9]+)"
//	    module: shop
//	    routes:
//	      - name: items
//	        pattern: "^/items$"
//	        action: list
//	        methods: GET HEAD
//
// Use [LoadFile] and [File.Build] to obtain a router:
//
//	f, err := routeconfig.LoadFile("routes.yaml")
//	if err != nil {
//		return err
//	}
//	r, err := f.Build(routing.WithNotFound("errors", "404"))
package routeconfig

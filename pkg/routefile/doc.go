// Package routefile builds route trees from JSON or YAML documents.
//
// A route file lists routes under a top-level "routes" key:
//
//	routes:
//	  - id: app
//	    path: /
//	    component: App
//	    indexRoute:
//	      component: Home
//	    childRoutes:
//	      - path: users/:id
//	        component: User
//	        onEnter: requireLogin
//	      - from: profile/:id
//	        to: users/:id
//	      - path: docs
//	        childRoutesManifest: docs.yaml
//
// Component and hook names are resolved through a Registry. Children named by
// childRoutesManifest are loaded lazily by the registry's ChildLoader.
package routefile

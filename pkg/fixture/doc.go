// Package fixture loads wrapper trees from YAML or JSON documents.
//
// A fixture names a wrapper's bindings, its children and the components
// those children use. Listener values are handler references: "@name"
// binds a handler that records its calls in a Recorder, so the order in
// which merged listeners run can be observed.
//
//	loader := &fixture.Loader{Files: fixture.FileSource{Dir: "fixtures"}}
//	doc, err := loader.Load(ctx, "card.yaml")
//	rec := fixture.NewRecorder()
//	wrapper, err := doc.Build(rec)
//	children := syringe.Inject(wrapper)
//	vdom.Emit(children[0].Data.On, "click", children[0])
//	fmt.Println(rec.Names())
//
// Locations of the form s3://bucket/key are read through an S3Source.
package fixture

// Package export writes server-rendered pages to storage.
//
// A Store is a flat namespace of slash-separated object names. DiskStore
// writes to a local directory, S3Store to a bucket through aws-sdk-go-v2.
// Pages renders vdom trees with package render and stores the results:
//
//	store, err := export.NewDiskStore("dist", 0)
//	if err != nil {
//		return err
//	}
//	objs, err := export.Pages(ctx, store, []export.Page[Msg]{
//		{Name: "index.html", Data: render.PageData[Msg]{Title: "Home", Body: view(&model)}},
//	}, export.Options{})
//
// Exported pages are static: they carry the initial view but no client.
package export

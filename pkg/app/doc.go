// Package app runs the model/update/view loop on top of a driver.
//
// Messages from listeners, hooks and commands are queued with Send and
// processed in batches by Flush: every queued message goes through Update,
// then the view is rendered once. Update controls this through Orders.
//
// Orders also start effects that outlive the update: commands, streams and
// subscriptions to notifications sent by other components. Each returns a
// Handle that cancels it; all of them end when the app stops.
//
//	a := app.New(app.Config[Model, Msg]{Init: initModel, Update: update, View: view})
//	if err := a.Start(doc, root); err != nil {
//	    return err
//	}
//	return a.Run(ctx)
package app

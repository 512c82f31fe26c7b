// Package mongo connects to MongoDB for the entity store.
//
// Settings come from MONGODB_* environment variables (see Config). New pings
// the deployment before returning and retries while it is unreachable, so
// the service can start alongside its database:
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := entity.NewMongoStore(db)
//
// Healthcheck is registered with the /healthz endpoint.
package mongo

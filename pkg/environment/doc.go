// Package environment identifies the deployment stage (development, staging,
// production) and carries it through request contexts and log records.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	r.Use(environment.Middleware(env))
package environment

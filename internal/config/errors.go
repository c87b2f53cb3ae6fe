package config

import "errors"

var (
	ErrStripeKeyMissing = errors.New("STRIPE_SECRET_KEY is required in production")
	ErrJWTSecretMissing = errors.New("JWT_SECRET is required in production")
)

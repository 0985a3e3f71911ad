package database

type Config struct {
	FileName string `envconfig:"LINSAC_DB_FILE" default:"linsac.db"`
}

package providers

const (
	// Identifier for ip-api.com. This is a default driver.
	NameIPAPI = "ip-api"

	// Identifier for ipinfo.io.
	NameIPInfo = "ipinfo"

	// Identifier for ipstack.com
	NameIPStack = "ipstack"

	// Identifier for tools.keycdn.com.
	NameKeyCDN = "keycdn"

	// Identifier for ip2c.org.
	NameIP2C = "ip2c"

	// Identifier for local MaxMind GeoIP2/GeoLite2 City databases.
	NameMaxmindDatabase = "maxmind_database"

	// Identifier for local DB-IP lite databases in mmdb format.
	NameDBIPDatabase = "dbip_database"

	// Identifier for local IP2Location BIN databases.
	NameIP2Location = "ip2location"
)

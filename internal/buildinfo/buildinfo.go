package buildinfo

const Graffiti = " _     ___ _   _ ____    _    ____ \n| |   |_ _| \\ | / ___|  / \\  / ___|\n| |    | ||  \\| \\___ \\ / _ \\| |    \n| |___ | || |\\  |___) / ___ \\ |___ \n|_____|___|_| \\_|____/_/   \\_\\____|\n\n"

var (
	BuildTag string = "v0.0.0"
	Name     string = "LINSAC"
	Time     string = ""
)

type buildinfo struct{}

func (buildinfo) Tag() string {
	return BuildTag
}

func (buildinfo) Name() string {
	return Name
}

func (buildinfo) Time() string {
	return Time
}

var Info buildinfo

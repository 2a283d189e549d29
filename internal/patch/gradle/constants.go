package gradle

// Artifact versions pinned for the build-time plugins and workarounds.
const (
	GoogleServicesVersion = "4.4.0"
	HuaweiAGCPVersion     = "1.9.1.300"
	WorkRuntimeVersion    = "2.8.1"
)

// Google services.
const (
	GoogleServicesClasspathMarker = "com.google.gms:google-services"
	GoogleServicesClasspath       = `    classpath "com.google.gms:google-services:` + GoogleServicesVersion + `"`
	GoogleServicesPluginMarker    = "com.google.gms.google-services"
	GoogleServicesPlugin          = "apply plugin: 'com.google.gms.google-services'"
)

// Huawei AppGallery Connect.
const (
	HuaweiMavenURL        = "https://developer.huawei.com/repo/"
	HuaweiMavenRepo       = "    maven { url 'https://developer.huawei.com/repo/' }"
	HuaweiClasspathMarker = "com.huawei.agconnect:agcp"
	HuaweiClasspath       = "    classpath 'com.huawei.agconnect:agcp:" + HuaweiAGCPVersion + "'"
	HuaweiPluginMarker    = "com.huawei.agconnect"
	HuaweiPlugin          = "apply plugin: 'com.huawei.agconnect'"
)

// RuStore.
const (
	RustoreMavenURL  = "https://artifactory-external.vkpartner.ru/artifactory/maven"
	RustoreMavenRepo = `    maven { url = uri("https://artifactory-external.vkpartner.ru/artifactory/maven") }`
)

// WorkRuntime is added ahead of the starters when the work-runtime
// workaround is enabled.
var WorkRuntime = Dependency{Coordinate: "androidx.work:work-runtime-ktx", Version: WorkRuntimeVersion}

// Starters maps a push provider name to its Mindbox starter artifact.
var Starters = map[string]Dependency{
	"firebase": {Coordinate: "cloud.mindbox:mindbox-firebase-starter"},
	"huawei":   {Coordinate: "cloud.mindbox:mindbox-huawei-starter"},
	"rustore":  {Coordinate: "cloud.mindbox:mindbox-rustore-starter"},
}

// ExpoNotificationDependencies are required when Expo notifications handle
// Firebase messages and delegate Mindbox pushes.
var ExpoNotificationDependencies = []Dependency{
	{Coordinate: "cloud.mindbox:mobile-sdk"},
	{Coordinate: "cloud.mindbox:mindbox-firebase"},
	{Coordinate: "cloud.mindbox:mindbox-sdk-starter-core"},
	{Coordinate: "com.google.firebase:firebase-messaging"},
}

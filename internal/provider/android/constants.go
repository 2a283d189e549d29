package android

import (
	"github.com/mindbox-cloud/mindbox-config/internal/domain/config"
	"github.com/mindbox-cloud/mindbox-config/internal/patch/gradle"
)

// Manifest meta-data names.
const (
	HuaweiAppIDMetaData  = "com.huawei.hms.client.appid"
	RustoreProjectIDMeta = "ru.rustore.sdk.pushclient.project_id"
)

// Expo notifications coexistence.
const (
	ExpoFirebaseMessagingService = "expo.modules.notifications.service.ExpoFirebaseMessagingService"
	FirebaseServiceClass         = "MindboxExpoFirebaseService"
	FirebaseServiceFile          = FirebaseServiceClass + ".kt"
	MessagingEventAction         = "com.google.firebase.MESSAGING_EVENT"
)

// AndroidXProperty is the gradle.properties key the Mindbox SDK needs.
const AndroidXProperty = "android.useAndroidX"

func starter(provider config.PushProvider) gradle.Dependency {
	return gradle.Starters[string(provider)]
}

package swift

// Imports added to AppDelegate.swift.
const (
	ImportMindboxSdk      = "import MindboxSdk"
	ImportMindbox         = "import Mindbox"
	ImportExNotifications = "import EXNotifications"
)

// Statements added to didFinishLaunchingWithOptions.
const (
	LineSetCenterDelegate     = "UNUserNotificationCenter.current().delegate = self"
	LineSetExpoCenterDelegate = "UNUserNotificationCenter.current().delegate = NotificationCenterManager.shared"
	LineAddExpoDelegate       = "NotificationCenterManager.shared.addDelegate(self)"
	LineConfigure             = "MindboxApp.configure()"
	LineConfigureWithOptions  = "MindboxApp.configure(launchOptions: launchOptions)"
	LineRequestPermissions    = "onRequestPushNotifications()"
)

// CenterDelegateProtocol is added to the AppDelegate conformance list.
const CenterDelegateProtocol = "UNUserNotificationCenterDelegate"

// RequestPermissionsSignature identifies MethodRequestPermissions.
const RequestPermissionsSignature = "func onRequestPushNotifications("

// MethodRequestPermissions asks for notification authorization and reports
// the result to the SDK.
const MethodRequestPermissions = `  public func onRequestPushNotifications() {
    UNUserNotificationCenter.current().requestAuthorization(
      options: [.alert, .sound, .badge]
    ) { granted, error in
      Mindbox.shared.notificationsRequestAuthorization(granted: granted)
    }
  }
`

// WillPresentSignature identifies MethodWillPresent.
const WillPresentSignature = "func userNotificationCenter("

// MethodWillPresent shows notifications while the app is in foreground.
const MethodWillPresent = `  public func userNotificationCenter(
    _ center: UNUserNotificationCenter,
    willPresent notification: UNNotification,
    withCompletionHandler completionHandler: @escaping (UNNotificationPresentationOptions) -> Void
  ) {
    completionHandler([.list, .badge, .sound, .banner])
  }
`

// NotificationDelegateSignature identifies ExtensionNotificationDelegate.
const NotificationDelegateSignature = "extension AppDelegate: NotificationDelegate"

// ExtensionNotificationDelegate lets Expo notifications hand Mindbox pushes
// to the SDK.
const ExtensionNotificationDelegate = `
extension AppDelegate: NotificationDelegate {

  public func didReceive(
    _ response: UNNotificationResponse,
    completionHandler: @escaping () -> Void
  ) -> Bool {
    let isMindbox = Mindbox.shared.isMindboxPush(
      userInfo: response.notification.request.content.userInfo
    )

    completionHandler()
    return isMindbox
  }
}
`

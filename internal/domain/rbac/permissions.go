package rbac

import "fmt"

// Permission represents an atomic capability
type Permission string

// PermissionCategory groups permissions for display only
type PermissionCategory string

const (
	CategoryContentViewing    PermissionCategory = "Content Viewing"
	CategoryUserInteractions  PermissionCategory = "User Interactions"
	CategoryProfileManagement PermissionCategory = "Profile Management"
	CategoryContentCreation   PermissionCategory = "Content Creation"
	CategoryContentManagement PermissionCategory = "Content Management"
	CategoryModeration        PermissionCategory = "Moderation"
	CategoryFinance           PermissionCategory = "Finance & Billing"
	CategoryAnalytics         PermissionCategory = "Analytics & Marketing"
	CategoryTechnical         PermissionCategory = "Technical Administration"
	CategorySuperAdmin        PermissionCategory = "Super Admin"
)

const (
	// Content viewing
	PermViewFreeContent      Permission = "view_free_content"
	PermViewPremiumContent   Permission = "view_premium_content"
	PermViewExclusiveContent Permission = "view_exclusive_content"
	PermDownloadContent      Permission = "download_content"
	PermStreamHD             Permission = "stream_hd"
	PermStream4K             Permission = "stream_4k"
	PermWatchEarlyAccess     Permission = "watch_early_access"

	// User interactions
	PermLikeContent     Permission = "like_content"
	PermCommentContent  Permission = "comment_content"
	PermRateContent     Permission = "rate_content"
	PermShareContent    Permission = "share_content"
	PermCreateWatchlist Permission = "create_watchlist"
	PermReportContent   Permission = "report_content"
	PermFollowCreators  Permission = "follow_creators"
	PermSendMessages    Permission = "send_messages"

	// Profile management
	PermManageOwnProfile    Permission = "manage_own_profile"
	PermCreateProfiles      Permission = "create_profiles"
	PermManageProfiles      Permission = "manage_profiles"
	PermSetParentalControls Permission = "set_parental_controls"
	PermManageDevices       Permission = "manage_devices"
	PermManageSubscription  Permission = "manage_subscription"

	// Content creation
	PermUploadContent     Permission = "upload_content"
	PermEditOwnContent    Permission = "edit_own_content"
	PermDeleteOwnContent  Permission = "delete_own_content"
	PermViewOwnAnalytics  Permission = "view_own_analytics"
	PermMonetizeContent   Permission = "monetize_content"
	PermScheduleReleases  Permission = "schedule_releases"
	PermManageOwnComments Permission = "manage_own_comments"

	// Content management
	PermViewAllContent   Permission = "view_all_content"
	PermCreateContent    Permission = "create_content"
	PermEditAnyContent   Permission = "edit_any_content"
	PermDeleteAnyContent Permission = "delete_any_content"
	PermPublishContent   Permission = "publish_content"
	PermFeatureContent   Permission = "feature_content"
	PermManageCategories Permission = "manage_categories"
	PermManageBanners    Permission = "manage_banners"
	PermManageSeries     Permission = "manage_series"

	// Moderation
	PermViewReports      Permission = "view_reports"
	PermResolveReports   Permission = "resolve_reports"
	PermModerateComments Permission = "moderate_comments"
	PermDeleteComments   Permission = "delete_comments"
	PermWarnUsers        Permission = "warn_users"
	PermBanUsers         Permission = "ban_users"
	PermSuspendUsers     Permission = "suspend_users"
	PermReviewAppeals    Permission = "review_appeals"

	// Finance & billing
	PermViewRevenue            Permission = "view_revenue"
	PermManagePayouts          Permission = "manage_payouts"
	PermIssueRefunds           Permission = "issue_refunds"
	PermManagePricing          Permission = "manage_pricing"
	PermViewTransactions       Permission = "view_transactions"
	PermExportFinancialReports Permission = "export_financial_reports"
	PermManageCoupons          Permission = "manage_coupons"

	// Analytics & marketing
	PermViewAnalytics       Permission = "view_analytics"
	PermExportAnalytics     Permission = "export_analytics"
	PermManageCampaigns     Permission = "manage_campaigns"
	PermManageNotifications Permission = "manage_notifications"
	PermViewUserInsights    Permission = "view_user_insights"
	PermManagePromotions    Permission = "manage_promotions"

	// Technical administration
	PermManageSettings     Permission = "manage_settings"
	PermManageAPIKeys      Permission = "manage_api_keys"
	PermViewSystemLogs     Permission = "view_system_logs"
	PermManageIntegrations Permission = "manage_integrations"
	PermManageCDN          Permission = "manage_cdn"
	PermManageBackups      Permission = "manage_backups"
	PermViewActivityLog    Permission = "view_activity_log"
	PermManageMaintenance  Permission = "manage_maintenance"

	// Super admin
	PermManageRoles  Permission = "manage_roles"
	PermManageAdmins Permission = "manage_admins"
	PermAssignRoles  Permission = "assign_roles"
	PermDeleteUsers  Permission = "delete_users"
	PermFullAccess   Permission = "full_access"
)

// PermissionDescription is the display metadata of a permission
type PermissionDescription struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    PermissionCategory `json:"category"`
}

type catalogEntry struct {
	perm Permission
	desc PermissionDescription
}

// catalog is the full permission enumeration in display order.
var catalog = []catalogEntry{
	{PermViewFreeContent, PermissionDescription{"View free content", "Watch movies, series and shorts that are free to stream", CategoryContentViewing}},
	{PermViewPremiumContent, PermissionDescription{"View premium content", "Watch titles reserved for paying subscribers", CategoryContentViewing}},
	{PermViewExclusiveContent, PermissionDescription{"View exclusive content", "Watch platform exclusives and originals", CategoryContentViewing}},
	{PermDownloadContent, PermissionDescription{"Download content", "Save titles for offline playback", CategoryContentViewing}},
	{PermStreamHD, PermissionDescription{"Stream in HD", "Play video at 720p and 1080p", CategoryContentViewing}},
	{PermStream4K, PermissionDescription{"Stream in 4K", "Play video at 2160p where available", CategoryContentViewing}},
	{PermWatchEarlyAccess, PermissionDescription{"Early access", "Watch episodes before their public release", CategoryContentViewing}},

	{PermLikeContent, PermissionDescription{"Like content", "Like movies, episodes and shorts", CategoryUserInteractions}},
	{PermCommentContent, PermissionDescription{"Comment", "Post comments on titles", CategoryUserInteractions}},
	{PermRateContent, PermissionDescription{"Rate content", "Leave star ratings on titles", CategoryUserInteractions}},
	{PermShareContent, PermissionDescription{"Share content", "Generate share links for titles", CategoryUserInteractions}},
	{PermCreateWatchlist, PermissionDescription{"Create watchlists", "Build and edit personal watchlists", CategoryUserInteractions}},
	{PermReportContent, PermissionDescription{"Report content", "Flag titles or comments for moderation", CategoryUserInteractions}},
	{PermFollowCreators, PermissionDescription{"Follow creators", "Follow creator channels", CategoryUserInteractions}},
	{PermSendMessages, PermissionDescription{"Send messages", "Send direct messages to other members", CategoryUserInteractions}},

	{PermManageOwnProfile, PermissionDescription{"Manage own profile", "Edit own name, avatar and preferences", CategoryProfileManagement}},
	{PermCreateProfiles, PermissionDescription{"Create profiles", "Add viewing profiles under the account", CategoryProfileManagement}},
	{PermManageProfiles, PermissionDescription{"Manage profiles", "Edit or remove profiles under the account", CategoryProfileManagement}},
	{PermSetParentalControls, PermissionDescription{"Parental controls", "Set maturity limits on profiles", CategoryProfileManagement}},
	{PermManageDevices, PermissionDescription{"Manage devices", "Sign devices in and out of the account", CategoryProfileManagement}},
	{PermManageSubscription, PermissionDescription{"Manage subscription", "Change or cancel the account plan", CategoryProfileManagement}},

	{PermUploadContent, PermissionDescription{"Upload content", "Upload videos to own channel", CategoryContentCreation}},
	{PermEditOwnContent, PermissionDescription{"Edit own content", "Edit metadata of own uploads", CategoryContentCreation}},
	{PermDeleteOwnContent, PermissionDescription{"Delete own content", "Remove own uploads", CategoryContentCreation}},
	{PermViewOwnAnalytics, PermissionDescription{"View own analytics", "See views and watch time for own uploads", CategoryContentCreation}},
	{PermMonetizeContent, PermissionDescription{"Monetize content", "Enable revenue sharing on own uploads", CategoryContentCreation}},
	{PermScheduleReleases, PermissionDescription{"Schedule releases", "Set publish dates on own uploads", CategoryContentCreation}},
	{PermManageOwnComments, PermissionDescription{"Manage own comments", "Hide or pin comments on own uploads", CategoryContentCreation}},

	{PermViewAllContent, PermissionDescription{"View all content", "Browse every title including drafts", CategoryContentManagement}},
	{PermCreateContent, PermissionDescription{"Create content", "Add movies, web series and short films", CategoryContentManagement}},
	{PermEditAnyContent, PermissionDescription{"Edit any content", "Edit metadata of any title", CategoryContentManagement}},
	{PermDeleteAnyContent, PermissionDescription{"Delete any content", "Remove any title from the catalog", CategoryContentManagement}},
	{PermPublishContent, PermissionDescription{"Publish content", "Toggle the published flag on titles", CategoryContentManagement}},
	{PermFeatureContent, PermissionDescription{"Feature content", "Toggle the featured flag on titles", CategoryContentManagement}},
	{PermManageCategories, PermissionDescription{"Manage categories", "Create and edit genres and collections", CategoryContentManagement}},
	{PermManageBanners, PermissionDescription{"Manage banners", "Upload and order home page banners", CategoryContentManagement}},
	{PermManageSeries, PermissionDescription{"Manage series", "Manage seasons and episodes of web series", CategoryContentManagement}},

	{PermViewReports, PermissionDescription{"View reports", "See reports filed by members", CategoryModeration}},
	{PermResolveReports, PermissionDescription{"Resolve reports", "Close or dismiss reports", CategoryModeration}},
	{PermModerateComments, PermissionDescription{"Moderate comments", "Hide or approve comments", CategoryModeration}},
	{PermDeleteComments, PermissionDescription{"Delete comments", "Permanently delete comments", CategoryModeration}},
	{PermWarnUsers, PermissionDescription{"Warn users", "Send formal warnings to members", CategoryModeration}},
	{PermBanUsers, PermissionDescription{"Ban users", "Permanently ban member accounts", CategoryModeration}},
	{PermSuspendUsers, PermissionDescription{"Suspend users", "Temporarily suspend member accounts", CategoryModeration}},
	{PermReviewAppeals, PermissionDescription{"Review appeals", "Decide on ban and suspension appeals", CategoryModeration}},

	{PermViewRevenue, PermissionDescription{"View revenue", "See subscription and ad revenue", CategoryFinance}},
	{PermManagePayouts, PermissionDescription{"Manage payouts", "Approve and schedule creator payouts", CategoryFinance}},
	{PermIssueRefunds, PermissionDescription{"Issue refunds", "Refund member payments", CategoryFinance}},
	{PermManagePricing, PermissionDescription{"Manage pricing", "Change plan prices", CategoryFinance}},
	{PermViewTransactions, PermissionDescription{"View transactions", "Browse payment transactions", CategoryFinance}},
	{PermExportFinancialReports, PermissionDescription{"Export financial reports", "Download revenue and payout reports", CategoryFinance}},
	{PermManageCoupons, PermissionDescription{"Manage coupons", "Create and revoke discount codes", CategoryFinance}},

	{PermViewAnalytics, PermissionDescription{"View analytics", "See platform-wide viewing analytics", CategoryAnalytics}},
	{PermExportAnalytics, PermissionDescription{"Export analytics", "Download analytics and activity data", CategoryAnalytics}},
	{PermManageCampaigns, PermissionDescription{"Manage campaigns", "Run marketing campaigns", CategoryAnalytics}},
	{PermManageNotifications, PermissionDescription{"Manage notifications", "Send push and email notifications", CategoryAnalytics}},
	{PermViewUserInsights, PermissionDescription{"View user insights", "See audience segments and retention", CategoryAnalytics}},
	{PermManagePromotions, PermissionDescription{"Manage promotions", "Schedule promoted titles", CategoryAnalytics}},

	{PermManageSettings, PermissionDescription{"Manage settings", "Change platform settings", CategoryTechnical}},
	{PermManageAPIKeys, PermissionDescription{"Manage API keys", "Create and revoke API keys", CategoryTechnical}},
	{PermViewSystemLogs, PermissionDescription{"View system logs", "Read service and error logs", CategoryTechnical}},
	{PermManageIntegrations, PermissionDescription{"Manage integrations", "Configure third-party integrations", CategoryTechnical}},
	{PermManageCDN, PermissionDescription{"Manage CDN", "Purge and configure the video CDN", CategoryTechnical}},
	{PermManageBackups, PermissionDescription{"Manage backups", "Trigger and restore backups", CategoryTechnical}},
	{PermViewActivityLog, PermissionDescription{"View activity log", "Read the back-office activity log", CategoryTechnical}},
	{PermManageMaintenance, PermissionDescription{"Maintenance mode", "Toggle maintenance mode", CategoryTechnical}},

	{PermManageRoles, PermissionDescription{"Manage roles", "Edit role permission sets", CategorySuperAdmin}},
	{PermManageAdmins, PermissionDescription{"Manage admins", "Create and deactivate staff accounts", CategorySuperAdmin}},
	{PermAssignRoles, PermissionDescription{"Assign roles", "Change the role of staff accounts", CategorySuperAdmin}},
	{PermDeleteUsers, PermissionDescription{"Delete users", "Permanently delete member accounts", CategorySuperAdmin}},
	{PermFullAccess, PermissionDescription{"Full access", "Unrestricted access to every capability", CategorySuperAdmin}},
}

var (
	catalogIndex = buildCatalogIndex()

	categoryOrder = []PermissionCategory{
		CategoryContentViewing,
		CategoryUserInteractions,
		CategoryProfileManagement,
		CategoryContentCreation,
		CategoryContentManagement,
		CategoryModeration,
		CategoryFinance,
		CategoryAnalytics,
		CategoryTechnical,
		CategorySuperAdmin,
	}
)

func buildCatalogIndex() map[Permission]PermissionDescription {
	idx := make(map[Permission]PermissionDescription, len(catalog))
	for _, e := range catalog {
		if _, dup := idx[e.perm]; dup {
			panic(fmt.Sprintf("rbac: duplicate permission %q in catalog", e.perm))
		}
		idx[e.perm] = e.desc
	}
	return idx
}

// AllPermissions returns every permission in catalog order
func AllPermissions() []Permission {
	out := make([]Permission, len(catalog))
	for i, e := range catalog {
		out[i] = e.perm
	}
	return out
}

// Describe returns the display metadata for p
func Describe(p Permission) (PermissionDescription, error) {
	desc, ok := catalogIndex[p]
	if !ok {
		return PermissionDescription{}, fmt.Errorf("%w: %q", ErrUnknownPermission, string(p))
	}
	return desc, nil
}

// ParsePermission converts s into a catalog permission
func ParsePermission(s string) (Permission, error) {
	p := Permission(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPermission, s)
	}
	return p, nil
}

// IsValid reports whether p is part of the catalog
func (p Permission) IsValid() bool {
	_, ok := catalogIndex[p]
	return ok
}

func (p Permission) String() string {
	return string(p)
}

// UnmarshalText rejects permissions outside the catalog
func (p *Permission) UnmarshalText(text []byte) error {
	parsed, err := ParsePermission(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Categories returns the permission categories in display order
func Categories() []PermissionCategory {
	out := make([]PermissionCategory, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// PermissionsByCategory groups the given permissions by category,
// keeping catalog order inside each group.
func PermissionsByCategory(perms []Permission) map[PermissionCategory][]Permission {
	wanted := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		wanted[p] = struct{}{}
	}

	groups := make(map[PermissionCategory][]Permission)
	for _, e := range catalog {
		if _, ok := wanted[e.perm]; ok {
			groups[e.desc.Category] = append(groups[e.desc.Category], e.perm)
		}
	}
	return groups
}

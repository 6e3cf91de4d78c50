package rbac

func quota(n int) *int { return &n }

// defaultRoleOrder is the listing order of the reference roles
var defaultRoleOrder = []Role{
	RoleViewer,
	RolePremium,
	RoleProfileUser,
	RoleCreator,
	RoleContentManager,
	RoleModerator,
	RoleFinance,
	RoleAnalyst,
	RoleTechAdmin,
	RoleSuperAdmin,
}

// defaultAdminPanelRoles may enter the back-office at all
var defaultAdminPanelRoles = []Role{
	RoleContentManager,
	RoleModerator,
	RoleFinance,
	RoleAnalyst,
	RoleTechAdmin,
	RoleSuperAdmin,
}

var viewerPermissions = []Permission{
	PermViewFreeContent,
	PermLikeContent, PermCommentContent, PermRateContent, PermShareContent,
	PermCreateWatchlist, PermReportContent,
	PermManageOwnProfile,
}

// DefaultRoleConfigs returns a fresh copy of the compiled-in role table
func DefaultRoleConfigs() map[Role]RoleConfig {
	return map[Role]RoleConfig{
		RoleViewer: {
			Level:         1,
			Permissions:   append([]Permission(nil), viewerPermissions...),
			DisplayName:   "Viewer",
			LocalizedName: "दर्शक",
			Description:   "Free tier member who can watch free titles and interact with them",
			Color:         "gray",
			Icon:          "eye",
			MaxDevices:    quota(1),
			MaxProfiles:   quota(1),
			MaxScreens:    quota(1),
		},
		RolePremium: {
			Level: 2,
			Permissions: append(append([]Permission(nil), viewerPermissions...),
				PermViewPremiumContent, PermViewExclusiveContent, PermDownloadContent,
				PermStreamHD, PermStream4K, PermWatchEarlyAccess,
				PermFollowCreators, PermSendMessages,
				PermCreateProfiles, PermManageProfiles, PermSetParentalControls,
				PermManageDevices, PermManageSubscription,
			),
			DisplayName:   "Premium Member",
			LocalizedName: "प्रीमियम सदस्य",
			Description:   "Paying subscriber with premium catalog, 4K streaming and downloads",
			Color:         "gold",
			Icon:          "crown",
			MaxDevices:    quota(5),
			MaxProfiles:   quota(5),
			MaxScreens:    quota(4),
		},
		RoleProfileUser: {
			Level: 2,
			Permissions: []Permission{
				PermViewFreeContent, PermViewPremiumContent, PermStreamHD,
				PermLikeContent, PermRateContent, PermCreateWatchlist,
				PermManageOwnProfile,
			},
			DisplayName:   "Profile User",
			LocalizedName: "प्रोफ़ाइल उपयोगकर्ता",
			Description:   "Secondary profile under a premium account; inherits playback but not billing",
			Color:         "teal",
			Icon:          "user",
			MaxDevices:    quota(1),
			MaxProfiles:   quota(0),
			MaxScreens:    quota(1),
		},
		RoleCreator: {
			Level: 3,
			Permissions: append(append([]Permission(nil), viewerPermissions...),
				PermFollowCreators, PermSendMessages,
				PermUploadContent, PermEditOwnContent, PermDeleteOwnContent,
				PermViewOwnAnalytics, PermMonetizeContent, PermScheduleReleases,
				PermManageOwnComments,
			),
			DisplayName:   "Creator",
			LocalizedName: "निर्माता",
			Description:   "Uploads and monetizes short films on an own channel",
			Color:         "purple",
			Icon:          "video",
			MaxDevices:    quota(3),
			MaxProfiles:   quota(1),
			MaxScreens:    quota(2),
		},
		RoleContentManager: {
			Level: 5,
			Permissions: []Permission{
				PermViewFreeContent, PermViewPremiumContent, PermViewExclusiveContent,
				PermViewAllContent, PermCreateContent, PermEditAnyContent, PermDeleteAnyContent,
				PermPublishContent, PermFeatureContent, PermManageCategories,
				PermManageBanners, PermManageSeries, PermScheduleReleases,
				PermViewAnalytics,
			},
			CanManageOthers: true,
			DisplayName:     "Content Manager",
			LocalizedName:   "सामग्री प्रबंधक",
			Description:     "Curates the catalog: movies, web series, short films and banners",
			Color:           "blue",
			Icon:            "film",
		},
		RoleModerator: {
			Level: 5,
			Permissions: []Permission{
				PermViewFreeContent, PermViewAllContent,
				PermViewReports, PermResolveReports, PermModerateComments, PermDeleteComments,
				PermWarnUsers, PermBanUsers, PermSuspendUsers, PermReviewAppeals,
			},
			CanManageOthers: true,
			DisplayName:     "Moderator",
			LocalizedName:   "मॉडरेटर",
			Description:     "Handles reports, comments and member sanctions",
			Color:           "orange",
			Icon:            "shield",
		},
		RoleFinance: {
			Level: 6,
			Permissions: []Permission{
				PermViewRevenue, PermManagePayouts, PermIssueRefunds, PermManagePricing,
				PermViewTransactions, PermExportFinancialReports, PermManageCoupons,
				PermViewAnalytics,
			},
			DisplayName:   "Finance",
			LocalizedName: "वित्त",
			Description:   "Manages revenue, payouts, refunds and pricing",
			Color:         "green",
			Icon:          "wallet",
		},
		RoleAnalyst: {
			Level: 4,
			Permissions: []Permission{
				PermViewAllContent,
				PermViewAnalytics, PermExportAnalytics, PermManageCampaigns,
				PermManageNotifications, PermViewUserInsights, PermManagePromotions,
				PermViewRevenue,
			},
			DisplayName:   "Analyst",
			LocalizedName: "विश्लेषक",
			Description:   "Reads analytics and runs marketing campaigns",
			Color:         "cyan",
			Icon:          "chart",
		},
		RoleTechAdmin: {
			Level: 8,
			Permissions: []Permission{
				PermViewAllContent,
				PermManageSettings, PermManageAPIKeys, PermViewSystemLogs,
				PermManageIntegrations, PermManageCDN, PermManageBackups,
				PermViewActivityLog, PermManageMaintenance,
				PermViewAnalytics, PermExportAnalytics,
				PermManageAdmins, PermAssignRoles,
			},
			CanManageOthers: true,
			DisplayName:     "Tech Admin",
			LocalizedName:   "तकनीकी व्यवस्थापक",
			Description:     "Operates settings, API keys, integrations and infrastructure",
			Color:           "red",
			Icon:            "server",
		},
		RoleSuperAdmin: {
			Level:           10,
			Permissions:     []Permission{PermFullAccess},
			CanManageOthers: true,
			DisplayName:     "Super Admin",
			LocalizedName:   "सुपर व्यवस्थापक",
			Description:     "Unrestricted access to every capability and role",
			Color:           "black",
			Icon:            "key",
		},
	}
}

var defaultRegistry = mustDefaultRegistry()

func mustDefaultRegistry() *Registry {
	reg, err := NewRegistry(RoleSuperAdmin, defaultRoleOrder, DefaultRoleConfigs(),
		WithAdminPanelRoles(defaultAdminPanelRoles...))
	if err != nil {
		panic(err)
	}
	return reg
}

// Default returns the compiled-in registry
func Default() *Registry {
	return defaultRegistry
}

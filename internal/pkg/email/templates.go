package email

// BaseTemplate is the layout shared by all staff emails
const BaseTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            margin: 0;
            padding: 0;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
            background-color: #0b0d12;
            color: #ffffff;
        }
        .container { max-width: 600px; margin: 0 auto; padding: 40px 20px; }
        .card { background: #151922; border-radius: 12px; padding: 32px; border: 1px solid #232a36; }
        .logo { text-align: center; margin-bottom: 24px; }
        .logo h1 { font-size: 26px; color: #e50914; margin: 0; }
        h2 { color: #ffffff; font-size: 22px; margin: 0 0 16px; }
        p { color: #9aa3b2; font-size: 16px; line-height: 1.6; margin: 0 0 16px; }
        .btn {
            display: inline-block;
            background: #e50914;
            color: #ffffff !important;
            text-decoration: none;
            padding: 14px 28px;
            border-radius: 8px;
            font-weight: 600;
            margin: 16px 0;
        }
        .highlight { color: #ff4d57; font-weight: 600; }
        .info-box { background: #1d2330; border-radius: 8px; padding: 16px; margin: 16px 0; }
        .footer { text-align: center; margin-top: 32px; color: #5c6573; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo"><h1>CineVault Admin</h1></div>
        <div class="card">
            {{.Content}}
        </div>
        <div class="footer">
            <p>This message was sent to CineVault back-office staff. Do not forward it.</p>
        </div>
    </div>
</body>
</html>
`

// StaffWelcomeTemplate is sent when an account is created for a staff member
const StaffWelcomeTemplate = `
<h2>Welcome, {{.Name}}</h2>
<p>A CineVault admin account has been created for you with the role <span class="highlight">{{.Role}}</span>.</p>
<div class="info-box">
    <p>Sign in with <strong>{{.Email}}</strong> and the password shared by your administrator.</p>
</div>
<a href="{{.LoginURL}}" class="btn">Open the admin panel</a>
`

// RoleChangedTemplate is sent when a staff member's role changes
const RoleChangedTemplate = `
<h2>Your role has changed</h2>
<p>Hi {{.Name}}, your admin role was changed from <strong>{{.OldRole}}</strong> to <span class="highlight">{{.NewRole}}</span>.</p>
{{if .Reason}}<div class="info-box"><p>Reason: {{.Reason}}</p></div>{{end}}
<p>The new permissions apply immediately.</p>
<a href="{{.LoginURL}}" class="btn">Open the admin panel</a>
`

// AccountDeactivatedTemplate is sent when a staff account is deactivated
const AccountDeactivatedTemplate = `
<h2>Your account was deactivated</h2>
<p>Hi {{.Name}}, your CineVault admin account has been deactivated and can no longer sign in.</p>
<p>Contact a technical administrator if you believe this is a mistake.</p>
`

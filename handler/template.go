package handler

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Prompt</title>
</head>
<body>
<form method="post" action="/submit">
<input type="text" id="prompt" name="prompt" value="{{.Prompt}}" autofocus>
<button type="submit">Send</button>
</form>
<div id="error">{{.Error}}</div>
<div id="response">{{.Response}}</div>
<small>{{.Endpoint}}</small>
</body>
</html>
`))
